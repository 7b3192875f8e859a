package service

import (
	"errors"
	"testing"

	"ridelog_backend/internal/util"
)

func TestFollowSelfRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "独行侠", "solo@example.com")

	if err := env.follows.Follow(user.ID, user.ID); !errors.Is(err, util.ErrSelfFollow) {
		t.Fatalf("self follow: got %v, want ErrSelfFollow", err)
	}
}

func TestFollowUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "粉丝", "fan@example.com")

	if err := env.follows.Follow(user.ID, user.ID+1000); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("follow missing user: got %v, want ErrUserNotFound", err)
	}
}

func TestFollowLifecycle(t *testing.T) {
	env := newTestEnv(t)
	fan := env.createUser(t, "粉丝", "fan2@example.com")
	star := env.createUser(t, "大神", "star@example.com")

	if err := env.follows.Follow(fan.ID, star.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := env.follows.Follow(fan.ID, star.ID); !errors.Is(err, util.ErrAlreadyFollowing) {
		t.Fatalf("duplicate follow: got %v, want ErrAlreadyFollowing", err)
	}

	if stats := env.userStats(t, fan.ID); stats.FollowingCount != 1 {
		t.Errorf("fan FollowingCount = %d, want 1", stats.FollowingCount)
	}
	if stats := env.userStats(t, star.ID); stats.FollowerCount != 1 {
		t.Errorf("star FollowerCount = %d, want 1", stats.FollowerCount)
	}

	following, err := env.follows.IsFollowing(fan.ID, star.ID)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if !following {
		t.Error("IsFollowing = false after follow")
	}

	followers, total, err := env.follows.ListFollowers(star.ID, 1, 20)
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if total != 1 || len(followers) != 1 || followers[0].ID != fan.ID {
		t.Errorf("followers = %d entries (total %d), want the fan", len(followers), total)
	}

	if err := env.follows.Unfollow(fan.ID, star.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := env.follows.Unfollow(fan.ID, star.ID); !errors.Is(err, util.ErrNotFollowing) {
		t.Fatalf("repeat unfollow: got %v, want ErrNotFollowing", err)
	}

	if stats := env.userStats(t, fan.ID); stats.FollowingCount != 0 {
		t.Errorf("fan FollowingCount = %d after unfollow, want 0", stats.FollowingCount)
	}
	if stats := env.userStats(t, star.ID); stats.FollowerCount != 0 {
		t.Errorf("star FollowerCount = %d after unfollow, want 0", stats.FollowerCount)
	}
}

func TestFollowingFeedOnlyFollowedAuthors(t *testing.T) {
	env := newTestEnv(t)
	fan := env.createUser(t, "读者", "reader@example.com")
	followed := env.createUser(t, "关注的作者", "followed@example.com")
	ignored := env.createUser(t, "没关注的作者", "ignored@example.com")

	for _, author := range []uint{followed.ID, ignored.ID} {
		trip := env.createDraftWithLocation(t, author, "骑行记录")
		if _, err := env.trips.Publish(trip.ID, author); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	if err := env.follows.Follow(fan.ID, followed.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	trips, total, err := env.feed.Following(fan.ID, 1, 20)
	if err != nil {
		t.Fatalf("following feed: %v", err)
	}
	if total != 1 || len(trips) != 1 {
		t.Fatalf("feed size = %d (total %d), want 1", len(trips), total)
	}
	if trips[0].UserID != followed.ID {
		t.Errorf("feed contains trip by %d, want %d", trips[0].UserID, followed.ID)
	}
}
