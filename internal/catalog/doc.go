// Package catalog holds the in-memory crater and meteorite collections and
// answers filter queries over them.
//
// A catalog publishes an immutable snapshot on every Replace or Load, so
// filters run without locks and concurrent readers never observe a partially
// loaded collection. Filter results are memoised per snapshot in a small LRU
// cache; a reload invalidates every cached entry by bumping the snapshot
// generation.
package catalog
