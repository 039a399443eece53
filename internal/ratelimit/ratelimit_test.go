package ratelimit

import (
	"sync"
	"testing"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(1, 3)

	for i := 0; i < 3; i++ {
		if !krl.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst denied", i)
		}
	}
	if krl.Allow("10.0.0.1") {
		t.Error("request beyond burst allowed")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)

	if !krl.Allow("10.0.0.1") {
		t.Fatal("first key denied")
	}
	if !krl.Allow("10.0.0.2") {
		t.Error("second key throttled by first key's bucket")
	}
}

func TestAllow_Concurrent(t *testing.T) {
	krl := New(1000, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				krl.Allow("shared")
			}
		}()
	}
	wg.Wait()
}
