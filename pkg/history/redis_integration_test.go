//go:build integration

package history

import (
	"context"
	"testing"

	"github.com/netherd-io/netherd/internal/testutil"
)

func TestRedisStore(t *testing.T) {
	testutil.SkipIfNoRedis(t)

	const testDB = 9
	client := testutil.RedisClient(t, testDB)
	if err := client.Del(context.Background(), redisKey).Err(); err != nil {
		t.Fatalf("clearing history key: %v", err)
	}

	store, err := NewRedisStore(testutil.RedisAddr(), testDB, 3)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		if err := store.Append(testRecord(id, "devices")); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List() returned %d records, want cap 3", len(records))
	}
	if records[0].RunID != "r4" || records[2].RunID != "r2" {
		t.Errorf("retained = [%s %s %s], want r4 r3 r2",
			records[0].RunID, records[1].RunID, records[2].RunID)
	}

	got, ok, err := store.Get("r3")
	if err != nil || !ok {
		t.Fatalf("Get(r3) = ok=%v err=%v", ok, err)
	}
	if got.Command != "devices" {
		t.Errorf("Get(r3) command = %q", got.Command)
	}
}
