package topology

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/nimbusdb/nimbus-go-driver/address"
)

func pipeDialer() DialerFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			buf := make([]byte, 4096)
			for {
				if _, err := server.Read(buf); err != nil {
					return
				}
			}
		}()
		return client, nil
	}
}

func TestPoolCheckoutReusesCheckedInConnection(t *testing.T) {
	p := NewPool(address.Address("h:27017"), 2, WithDialer(pipeDialer()))
	ctx := context.Background()

	c1, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	p.Checkin(c1)

	c2, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if c2 != c1 {
		t.Fatal("expected the checked-in connection to be reused")
	}
}

func TestPoolCheckoutBlocksAtMaxSize(t *testing.T) {
	p := NewPool(address.Address("h:27017"), 1, WithDialer(pipeDialer()))
	ctx := context.Background()

	c1, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	ctx2, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := p.Checkout(ctx2); err == nil {
		t.Fatal("expected Checkout to block and time out while at maxSize")
	}

	p.Checkin(c1)
}

func TestPoolCheckinDiscardsBrokenConnection(t *testing.T) {
	p := NewPool(address.Address("h:27017"), 1, WithDialer(pipeDialer()))
	ctx := context.Background()

	c1, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	c1.broken = true
	p.Checkin(c1)

	c2, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout after discarding broken connection: %v", err)
	}
	if c2 == c1 {
		t.Fatal("broken connection must not be reused")
	}
}

func TestPoolCheckinDiscardsConnectionCheckedOutBeforeClear(t *testing.T) {
	p := NewPool(address.Address("h:27017"), 2, WithDialer(pipeDialer()))
	ctx := context.Background()

	c1, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	// Clear() fires while c1 is still checked out (e.g. a NotMaster
	// invalidation observed on a different connection to the same server).
	p.Clear()

	p.Checkin(c1)

	c2, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout after Clear: %v", err)
	}
	if c2 == c1 {
		t.Fatal("checkin of a connection checked out before Clear must not make it available for reuse")
	}
}

func TestPoolClearDropsIdleConnections(t *testing.T) {
	p := NewPool(address.Address("h:27017"), 1, WithDialer(pipeDialer()))
	ctx := context.Background()

	c1, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	p.Checkin(c1)
	p.Clear()

	c2, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout after Clear: %v", err)
	}
	if c2 == c1 {
		t.Fatal("Clear should have discarded the prior-generation idle connection")
	}
}
