package config

import (
	"testing"

	"github.com/gofrs/uuid"
)

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("tag")
	if _, err := uuid.FromString(id); err != nil {
		t.Fatalf("instance id %q is not a uuid: %v", id, err)
	}
	if GetInstanceId() != id {
		t.Errorf("GetInstanceId() = %q, want %q", GetInstanceId(), id)
	}

	if other := CreateUniqueInstance("monitor"); other == id {
		t.Error("two instances received the same id")
	}
}
