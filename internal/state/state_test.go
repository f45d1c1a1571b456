package state

import "testing"

func TestStoreClients(t *testing.T) {
	store := NewStore()
	if got := store.Snapshot().Phase; got != BOOTING {
		t.Fatalf("initial phase = %v, want booting", got)
	}

	seq := store.Seq()
	store.ClientConnected("a")
	store.ClientConnected("b")
	store.ClientDisconnected()
	store.ClientDisconnected()
	store.ClientDisconnected()

	snap := store.Snapshot()
	if snap.Clients.Connected != 0 {
		t.Errorf("connected = %d, want 0", snap.Clients.Connected)
	}
	if snap.Clients.LastID != "b" {
		t.Errorf("last id = %q, want b", snap.Clients.LastID)
	}
	if store.Seq() != seq+5 {
		t.Errorf("seq = %d, want %d", store.Seq(), seq+5)
	}
}

func TestStoreNetwork(t *testing.T) {
	store := NewStore()
	store.UpdateNetwork(NetworkInfo{IP: "10.0.0.2", URL: "http://10.0.0.2:8080/"})
	store.SetPhase(READY)
	snap := store.Snapshot()
	if snap.Network.URL != "http://10.0.0.2:8080/" || snap.Phase != READY {
		t.Errorf("snapshot = %+v", snap)
	}
	if READY.String() != "ready" {
		t.Errorf("READY.String() = %q", READY.String())
	}
}
