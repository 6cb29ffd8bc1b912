package repository

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newEmulatorClient connects to the Firestore emulator named by
// FIRESTORE_EMULATOR_HOST and skips the test when it is not running.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "roomlink-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

// seedDoc writes a raw document under a fresh ID and returns that ID.
func seedDoc(t *testing.T, client *firestore.Client, collection string, data map[string]interface{}) string {
	t.Helper()
	id := uuid.New().String()
	_, err := client.Collection(collection).Doc(id).Set(context.Background(), data)
	require.NoError(t, err)
	return id
}

func readField(t *testing.T, client *firestore.Client, collection, id, field string) interface{} {
	t.Helper()
	doc, err := client.Collection(collection).Doc(id).Get(context.Background())
	require.NoError(t, err)
	v, err := doc.DataAt(field)
	require.NoError(t, err)
	return v
}
