package hook

import (
	"errors"
	"testing"
)

func TestSplitTokens(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"ctrl+win", []string{"ctrl", "win"}},
		{" Ctrl + Win ", []string{"ctrl", "win"}},
		{"left windows+r", []string{"left windows", "r"}},
		{"ctrl+", []string{"ctrl"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitTokens(c.in)
		if len(got) != len(c.want) {
			t.Errorf("splitTokens(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("splitTokens(%q) = %v, want %v", c.in, got, c.want)
				break
			}
		}
	}
}

func TestFakePressDispatch(t *testing.T) {
	fk := NewFake()
	var fired int
	if err := fk.Subscribe("ctrl+win", func() { fired++ }); err != nil {
		t.Fatal(err)
	}
	fk.SimPress("ctrl+win")
	fk.SimPress("ctrl+shift+win") // different spec, no callback
	if fired != 1 {
		t.Errorf("press callbacks fired %d times, want 1", fired)
	}
}

func TestFakeReleaseMarksKeyUp(t *testing.T) {
	fk := NewFake()
	var fired int
	if err := fk.SubscribeRelease("win", func() { fired++ }); err != nil {
		t.Fatal(err)
	}
	fk.SetKeyDown("win", true)
	if !fk.IsKeyDown("win") {
		t.Fatal("win should be down")
	}
	fk.SimRelease("win")
	if fk.IsKeyDown("win") {
		t.Error("win should be up after release")
	}
	if fired != 1 {
		t.Errorf("release callbacks fired %d times, want 1", fired)
	}
}

func TestFakeUnsubscribeAllClears(t *testing.T) {
	fk := NewFake()
	fk.Subscribe("ctrl+win", func() { t.Error("stale press callback fired") })
	fk.SubscribeRelease("win", func() { t.Error("stale release callback fired") })
	if err := fk.UnsubscribeAll(); err != nil {
		t.Fatal(err)
	}
	fk.SimPress("ctrl+win")
	fk.SimRelease("win")
	if n := fk.UnsubscribeCalls(); n != 1 {
		t.Errorf("unsubscribe calls = %d, want 1", n)
	}
}

func TestFakeInjectedFailures(t *testing.T) {
	fk := NewFake()
	subErr := errors.New("no")
	fk.FailSubscribe("ctrl+win", subErr)
	if err := fk.Subscribe("ctrl+win", func() {}); !errors.Is(err, subErr) {
		t.Errorf("Subscribe error = %v, want %v", err, subErr)
	}
	unsubErr := errors.New("still no")
	fk.FailUnsubscribe(unsubErr)
	if err := fk.UnsubscribeAll(); !errors.Is(err, unsubErr) {
		t.Errorf("UnsubscribeAll error = %v, want %v", err, unsubErr)
	}
}
