package followup

import (
	"testing"
	"time"

	"github.com/oreline/oreline-engine/pkg/models"
)

func TestContextCache_SetGet(t *testing.T) {
	c := NewContextCache(DefaultContextTTL)

	if _, ok := c.Get("op1"); ok {
		t.Error("expected miss on empty cache")
	}

	c.Set(models.QuickContext{
		UserID:       "op1",
		LastIntent:   "shift_comparison",
		LastQuestion: "tonnage by shift",
		Timestamp:    time.Now(),
	})

	got, ok := c.Get("op1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.LastIntent != "shift_comparison" {
		t.Errorf("intent = %s", got.LastIntent)
	}

	// Other users never see it.
	if _, ok := c.Get("op2"); ok {
		t.Error("context leaked across users")
	}
}

func TestContextCache_LastWriteWins(t *testing.T) {
	c := NewContextCache(DefaultContextTTL)

	c.Set(models.QuickContext{UserID: "op1", LastIntent: "aggregation"})
	c.Set(models.QuickContext{UserID: "op1", LastIntent: "trip_analysis"})

	got, ok := c.Get("op1")
	if !ok || got.LastIntent != "trip_analysis" {
		t.Errorf("got %+v, want the second write", got)
	}
}

func TestContextCache_Expiry(t *testing.T) {
	c := NewContextCache(30 * time.Millisecond)

	c.Set(models.QuickContext{UserID: "op1", LastIntent: "aggregation"})
	if _, ok := c.Get("op1"); !ok {
		t.Fatal("expected hit inside TTL")
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.Get("op1"); ok {
		t.Error("expected expiry after TTL")
	}
}

func TestContextCache_GetDoesNotExtendTTL(t *testing.T) {
	c := NewContextCache(60 * time.Millisecond)

	c.Set(models.QuickContext{UserID: "op1", LastIntent: "aggregation"})

	// Repeated reads must not push the deadline out.
	for i := 0; i < 3; i++ {
		time.Sleep(25 * time.Millisecond)
		c.Get("op1")
	}
	if _, ok := c.Get("op1"); ok {
		t.Error("read refreshed the TTL")
	}
}

func TestContextCache_Clear(t *testing.T) {
	c := NewContextCache(DefaultContextTTL)

	c.Set(models.QuickContext{UserID: "op1", LastIntent: "aggregation"})
	c.Clear("op1")
	if _, ok := c.Get("op1"); ok {
		t.Error("expected miss after Clear")
	}
}
