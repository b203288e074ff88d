package program

import "fmt"

// showingRef は上映回とその親作品への参照を保持する
type showingRef struct {
	program *Program
	showing *Showing
}

// Catalog は作品と上映回の読み取り専用インデックス
// 初回起動時に構築され、予約エンジンのスコープでは以降変更されない
type Catalog struct {
	programs  []*Program
	byShowing map[string]showingRef
}

// NewCatalog は作品一覧からカタログを構築する
// 上映回IDがカタログ全体で一意でない場合はエラーを返す
func NewCatalog(programs []*Program) (*Catalog, error) {
	byShowing := make(map[string]showingRef)
	for _, p := range programs {
		for _, sh := range p.Showings {
			if _, ok := byShowing[sh.ID]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateShowing, sh.ID)
			}
			byShowing[sh.ID] = showingRef{program: p, showing: sh}
		}
	}
	return &Catalog{programs: programs, byShowing: byShowing}, nil
}

// Programs は作品一覧を登録順で返す
func (c *Catalog) Programs() []*Program {
	out := make([]*Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// FindShowing は上映回IDから作品と上映回を解決する
func (c *Catalog) FindShowing(showingID string) (*Program, *Showing, error) {
	ref, ok := c.byShowing[showingID]
	if !ok {
		return nil, nil, ErrShowingNotFound
	}
	return ref.program, ref.showing, nil
}
