package common

import (
	"encoding/json"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/tidwall/buntdb"
)

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = buntdb.ErrNotFound

// Indexes every engine store carries: name -> key pattern, json path.
var Indexes = map[string][2]string{
	"reports_target":    {"reports:*", "target_id"},
	"actions_target":    {"actions:*", "target_id"},
	"bans_member":       {"bans:*", "banned_member_id"},
	"appeals_appellant": {"appeals:*", "appellant_member_id"},
}

// OpenStore opens (or creates) the engine store. Use ":memory:" for an
// ephemeral database.
func OpenStore(path string) (*buntdb.DB, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	for name, def := range Indexes {
		if err := db.CreateIndex(name, def[0], buntdb.IndexJSONCaseSensitive(def[1])); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// NewID for engine records.
func NewID() string {
	return uuid.NewV4().String()
}

// Now in UTC, truncated to the precision kept by JSON round trips.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Get decodes the JSON document stored at key.
func Get(tx *buntdb.Tx, key string, v interface{}) error {
	raw, err := tx.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

// Put encodes v as JSON at key.
func Put(tx *buntdb.Tx, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _, err = tx.Set(key, string(raw), nil)
	return err
}

// Equal walks every document of index whose field equals value.
func Equal(tx *buntdb.Tx, index, value string, fn func(raw string) error) error {
	field := Indexes[index][1]
	pivot, err := json.Marshal(map[string]string{field: value})
	if err != nil {
		return err
	}
	var inner error
	err = tx.AscendEqual(index, string(pivot), func(key, raw string) bool {
		inner = fn(raw)
		return inner == nil
	})
	if err != nil {
		return err
	}
	return inner
}
