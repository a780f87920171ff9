package storage

import (
	"bytes"
	"testing"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	key := []byte("snapshot/test")
	if ok, err := db.Has(key); err != nil || ok {
		t.Fatalf("Has on empty db = (%v, %v)", ok, err)
	}
	if _, err := db.Get(key); err == nil {
		t.Fatalf("Get on empty db succeeded")
	}

	value := []byte{1, 2, 3}
	if err := db.Put(key, value); err != nil {
		t.Fatalf("put: %v", err)
	}
	// The stored value must not alias the caller's slice.
	value[0] = 9
	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Fatalf("stored value mutated: %v", got)
	}
	if ok, err := db.Has(key); err != nil || !ok {
		t.Fatalf("Has after put = (%v, %v)", ok, err)
	}

	if err := db.Put(key, []byte{4}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = db.Get(key)
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if !bytes.Equal(got, []byte{4}) {
		t.Fatalf("overwrite not visible: %v", got)
	}
}
