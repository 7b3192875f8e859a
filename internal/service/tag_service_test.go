package service

import (
	"errors"
	"fmt"
	"testing"

	"ridelog_backend/internal/util"
)

func TestNormalizeTagName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Gravel", "gravel"},
		{"  BIKE PACKING  ", "bike packing"},
		{"bike\t\tpacking", "bike packing"},
		{"长途骑行", "长途骑行"},
		{"   ", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTagName(tc.in); got != tc.want {
			t.Errorf("NormalizeTagName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAttachIsCaseInsensitiveIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "标签手", "tagger@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "碎石路"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	first, err := env.tags.Attach(trip.ID, user.ID, "Gravel")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	second, err := env.tags.Attach(trip.ID, user.ID, "  gravel ")
	if err != nil {
		t.Fatalf("repeat attach: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("got two tags %d and %d for same normalized name", first.ID, second.ID)
	}

	tags, err := env.tags.ListByTrip(trip.ID)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("tag count = %d, want 1", len(tags))
	}
	if tags[0].UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1", tags[0].UsageCount)
	}
}

func TestAttachRejectsInvalidName(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "标签手", "tagger2@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "测试"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if _, err := env.tags.Attach(trip.ID, user.ID, "   "); !errors.Is(err, util.ErrInvalidTagName) {
		t.Errorf("blank name: got %v, want ErrInvalidTagName", err)
	}
}

func TestAttachEnforcesPerTripLimit(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "标签手", "tagger3@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "标签上限"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	for i := 0; i < util.MaxTagsPerTrip; i++ {
		if _, err := env.tags.Attach(trip.ID, user.ID, fmt.Sprintf("tag-%d", i)); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}

	_, err = env.tags.Attach(trip.ID, user.ID, "one-too-many")
	if !errors.Is(err, util.ErrTagLimitReached) {
		t.Fatalf("over limit: got %v, want ErrTagLimitReached", err)
	}

	// 已关联的标签重复提交不受上限影响
	if _, err := env.tags.Attach(trip.ID, user.ID, "TAG-0"); err != nil {
		t.Errorf("re-attach existing at limit: %v", err)
	}
}

func TestDetachUpdatesUsageCount(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "标签手", "tagger4@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "摘标签"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	tag, err := env.tags.Attach(trip.ID, user.ID, "夜骑")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := env.tags.Detach(trip.ID, user.ID, tag.ID); err != nil {
		t.Fatalf("detach: %v", err)
	}

	tags, err := env.tags.ListByTrip(trip.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tag count = %d after detach, want 0", len(tags))
	}

	popular, err := env.tags.ListPopular(10)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	for _, p := range popular {
		if p.ID == tag.ID && p.UsageCount != 0 {
			t.Errorf("UsageCount = %d after detach, want 0", p.UsageCount)
		}
	}
}

func TestAttachForeignTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "主人", "tag-owner@example.com")
	other := env.createUser(t, "别人", "tag-other@example.com")
	trip, err := env.trips.Create(owner.ID, TripRequest{Title: "别人的游记"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if _, err := env.tags.Attach(trip.ID, other.ID, "gravel"); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("foreign attach: got %v, want ErrPermissionDenied", err)
	}
}
