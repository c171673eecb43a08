package local

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

func openBadger(opts Options) (*badger.DB, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, errors.New("a data directory is required")
		}
		bopts = badger.DefaultOptions(opts.Dir).WithSyncWrites(true)
	}
	bopts = bopts.WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(badgerLogger{opts.Logger.Sugar()})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "opening guest store")
	}
	return db, nil
}

// runGC reclaims value log space until stop is closed.
func runGC(db *badger.DB, interval time.Duration, logger *zap.Logger, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := db.RunValueLogGC(gcDiscardRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) && logger != nil {
				logger.Warn("guest store value log GC failed", zap.Error(err))
			}
		}
	}
}

// list is one entity type kept as a single JSON array under key.
// ids come from a counter stored next to it and are never reused.
type list[T any] struct {
	db  *badger.DB
	key string
	id  func(*T) *int
}

func (l list[T]) seqKey() []byte {
	return []byte("seq/" + l.key)
}

func (l list[T]) load(txn *badger.Txn) ([]T, error) {
	items := make([]T, 0)
	item, err := txn.Get([]byte(l.key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return items, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", l.key)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &items)
	})
	return items, errors.Wrapf(err, "decoding %s", l.key)
}

func (l list[T]) save(txn *badger.Txn, items []T) error {
	val, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", l.key)
	}
	return errors.Wrapf(txn.Set([]byte(l.key), val), "writing %s", l.key)
}

func (l list[T]) nextID(txn *badger.Txn) (int, error) {
	last := 0
	item, err := txn.Get(l.seqKey())
	switch {
	case err == nil:
		err = item.Value(func(val []byte) error {
			var convErr error
			last, convErr = strconv.Atoi(string(val))
			return convErr
		})
		if err != nil {
			return 0, errors.Wrapf(err, "decoding %s sequence", l.key)
		}
	case !errors.Is(err, badger.ErrKeyNotFound):
		return 0, errors.Wrapf(err, "reading %s sequence", l.key)
	}

	next := last + 1
	if err = txn.Set(l.seqKey(), []byte(strconv.Itoa(next))); err != nil {
		return 0, errors.Wrapf(err, "writing %s sequence", l.key)
	}
	return next, nil
}

func (l list[T]) all() ([]T, error) {
	var items []T
	err := l.db.View(func(txn *badger.Txn) error {
		var err error
		items, err = l.load(txn)
		return err
	})
	return items, err
}

func (l list[T]) get(id int) (T, bool, error) {
	var zero T
	items, err := l.all()
	if err != nil {
		return zero, false, err
	}
	for i := range items {
		if *l.id(&items[i]) == id {
			return items[i], true, nil
		}
	}
	return zero, false, nil
}

// modify runs fn on the stored items and saves what it returns, in one transaction.
func (l list[T]) modify(fn func(txn *badger.Txn, items []T) ([]T, error)) error {
	return l.db.Update(func(txn *badger.Txn) error {
		items, err := l.load(txn)
		if err != nil {
			return err
		}
		if items, err = fn(txn, items); err != nil {
			return err
		}
		return l.save(txn, items)
	})
}

func (l list[T]) create(v T) (T, error) {
	err := l.modify(func(txn *badger.Txn, items []T) ([]T, error) {
		id, err := l.nextID(txn)
		if err != nil {
			return nil, err
		}
		*l.id(&v) = id
		return append(items, v), nil
	})
	return v, err
}

// replace swaps the stored item having v's id, notFound when there is none.
func (l list[T]) replace(v T, notFound error) (T, error) {
	err := l.modify(func(_ *badger.Txn, items []T) ([]T, error) {
		for i := range items {
			if *l.id(&items[i]) == *l.id(&v) {
				items[i] = v
				return items, nil
			}
		}
		return nil, notFound
	})
	return v, err
}

func (l list[T]) remove(id int, notFound error) error {
	return l.modify(func(_ *badger.Txn, items []T) ([]T, error) {
		for i := range items {
			if *l.id(&items[i]) == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, notFound
	})
}
