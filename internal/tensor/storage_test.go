package tensor

import "testing"

// plainStorage implements Storage but not Mapper.
type plainStorage struct {
	Storage
}

type mappedStorage struct {
	Storage
	maps, unmaps int
}

func (m *mappedStorage) Map(bool) error { m.maps++; return nil }
func (m *mappedStorage) Unmap() error   { m.unmaps++; return nil }

func TestMapUnmapNoopForHostStorage(t *testing.T) {
	s := &plainStorage{}
	if err := Map(s, true); err != nil {
		t.Fatalf("Map on host storage: %v", err)
	}
	if err := Unmap(s); err != nil {
		t.Fatalf("Unmap on host storage: %v", err)
	}
}

func TestMapUnmapDispatchToMapper(t *testing.T) {
	s := &mappedStorage{}
	if err := Map(s, true); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := Unmap(s); err != nil {
		t.Fatalf("Unmap: %v", err)
	}
	if s.maps != 1 || s.unmaps != 1 {
		t.Errorf("Map/Unmap calls = %d/%d, want 1/1", s.maps, s.unmaps)
	}
}
