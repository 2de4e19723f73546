package authz

import "sync"

// keyedMutex serializes operations touching the same permission or role
// so that an in-use check and the mutation it guards run as one unit.
// Entries are never removed: the map holds one mutex per distinct name
// ever locked, a few dozen bytes each, including names since deleted.
type keyedMutex struct {
	mutexes sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.mutexes.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func permissionKey(name string) string {
	return "permission:" + name
}

func roleKey(name string) string {
	return "role:" + name
}
