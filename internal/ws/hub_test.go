package ws

import (
	"encoding/json"
	"testing"
)

func TestHubNotifyBalance(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, nil, hub)
	hub.Register(c)
	defer hub.Unregister(c)

	hub.NotifyBalance(1, 1500.50, "recharge", 500)

	select {
	case payload := <-c.Send:
		var event BalanceEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.Type != "balance" || event.Balance != 1500.50 || event.TxType != "recharge" || event.Amount != 500 {
			t.Errorf("unexpected event: %+v", event)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestHubNotifyOtherUser(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, nil, hub)
	hub.Register(c)
	defer hub.Unregister(c)

	hub.NotifyBalance(2, 100, "recharge", 100)

	select {
	case <-c.Send:
		t.Fatal("event delivered to wrong user")
	default:
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	c := NewClient(1, nil, hub)
	hub.Register(c)
	hub.Unregister(c)

	if _, open := <-c.Send; open {
		t.Error("send channel still open after unregister")
	}

	// double unregister must not panic
	hub.Unregister(c)
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	a := NewClient(1, nil, hub)
	b := NewClient(1, nil, hub)
	hub.Register(a)
	hub.Register(b)
	defer hub.Unregister(a)
	defer hub.Unregister(b)

	hub.NotifyBalance(1, 42, "daily_income", 20)

	for _, c := range []*Client{a, b} {
		select {
		case <-c.Send:
		default:
			t.Error("connection missed the event")
		}
	}
}
