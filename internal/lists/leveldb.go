package lists

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	listKeyPrefix = "list/"
	activeKey     = "active"
)

// LevelDBPersister stores one record per list plus the active set
type LevelDBPersister struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates the state database at path
func OpenLevelDB(path string) (*LevelDBPersister, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDBPersister{db: db}, nil
}

// Load restores the state. In-flight request ids are dropped since no
// request survives a restart.
func (p *LevelDBPersister) Load() (State, error) {
	state := newState()

	iter := p.db.NewIterator(util.BytesPrefix([]byte(listKeyPrefix)), nil)
	for iter.Next() {
		var ls ListState
		if err := json.Unmarshal(iter.Value(), &ls); err != nil {
			iter.Release()
			return State{}, fmt.Errorf("decode list %s: %w", iter.Key(), err)
		}
		ls.LoadingRequestID = ""
		url := strings.TrimPrefix(string(iter.Key()), listKeyPrefix)
		state.ByURL[url] = &ls
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return State{}, fmt.Errorf("iterate lists: %w", err)
	}

	raw, err := p.db.Get([]byte(activeKey), nil)
	switch {
	case err == leveldb.ErrNotFound:
	case err != nil:
		return State{}, fmt.Errorf("read active lists: %w", err)
	default:
		if err := json.Unmarshal(raw, &state.ActiveListURLs); err != nil {
			return State{}, fmt.Errorf("decode active lists: %w", err)
		}
	}

	return state, nil
}

// Save replaces the stored state in one batch
func (p *LevelDBPersister) Save(state State) error {
	batch := new(leveldb.Batch)

	iter := p.db.NewIterator(util.BytesPrefix([]byte(listKeyPrefix)), nil)
	for iter.Next() {
		url := strings.TrimPrefix(string(iter.Key()), listKeyPrefix)
		if _, ok := state.ByURL[url]; !ok {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate lists: %w", err)
	}

	for url, ls := range state.ByURL {
		data, err := json.Marshal(ls)
		if err != nil {
			return fmt.Errorf("encode list %s: %w", url, err)
		}
		batch.Put([]byte(listKeyPrefix+url), data)
	}

	active, err := json.Marshal(state.ActiveListURLs)
	if err != nil {
		return fmt.Errorf("encode active lists: %w", err)
	}
	batch.Put([]byte(activeKey), active)

	return p.db.Write(batch, nil)
}

// Close releases the database
func (p *LevelDBPersister) Close() error {
	return p.db.Close()
}
