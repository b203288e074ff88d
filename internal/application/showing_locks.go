package application

import "sync"

// showingLocks は上映回ごとの排他ロックのレジストリ
// 同一上映回に対する予約・キャンセルの「確認して書き込む」一連の処理を直列化し、
// 異なる上映回の操作は並行して進められるようにする
type showingLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newShowingLocks() *showingLocks {
	return &showingLocks{locks: make(map[string]*sync.Mutex)}
}

// lock は指定上映回のロックを取得し、解放関数を返す
func (sl *showingLocks) lock(showingID string) (unlock func()) {
	sl.mu.Lock()
	m, ok := sl.locks[showingID]
	if !ok {
		m = &sync.Mutex{}
		sl.locks[showingID] = m
	}
	sl.mu.Unlock()

	m.Lock()
	return m.Unlock
}
