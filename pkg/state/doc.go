// Package state defines the persistence contract for inventory snapshots.
//
// Responsibilities:
//   - KeyValue is the durable string store (the local-storage analogue):
//     one key, one opaque string value, overwritten on every write.
//   - Store[T] loads/saves a single typed snapshot for a single Ref.
//     JSONStore adapts any KeyValue into a Store by JSON encoding; MemoryStore
//     keeps typed values for tests and examples.
//   - Resolver[T] implements load-or-seed and commit on top of a Store.
//
// Data flow:
//
//	Editor -> Resolver.Commit -> Store.Save -> KeyValue.Set
//	KeyValue.Get -> Store.Load -> Resolver.LoadOrSeed -> Editor
//
// A payload that exists but cannot be decoded is reported as ErrUnreadable so
// the resolver can fall back to the seed instead of failing startup.
package state
