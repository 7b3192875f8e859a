package service

import (
	"errors"
	"testing"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/util"
)

func TestPublishRequiresTitleAndContent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "张骑手", "rider@example.com")

	trip, err := env.trips.Create(user.ID, TripRequest{Title: "环青海湖"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	// 既无路线也无地点
	if _, err := env.trips.Publish(trip.ID, user.ID); !errors.Is(err, util.ErrTripNotPublishable) {
		t.Fatalf("publish without content: got %v, want ErrTripNotPublishable", err)
	}

	if _, err := env.trips.ReplaceLocations(trip.ID, user.ID, []LocationRequest{{Name: "西海镇"}}); err != nil {
		t.Fatalf("set locations: %v", err)
	}

	published, err := env.trips.Publish(trip.ID, user.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != model.TripPublished {
		t.Errorf("status = %q, want published", published.Status)
	}
	if published.PublishedAt == nil {
		t.Error("PublishedAt not set")
	}

	stats := env.userStats(t, user.ID)
	if stats.PublishedCount != 1 {
		t.Errorf("PublishedCount = %d, want 1", stats.PublishedCount)
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "李骑手", "li@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "川藏线第一天")

	if _, err := env.trips.Publish(trip.ID, user.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := env.trips.Publish(trip.ID, user.ID); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	if stats := env.userStats(t, user.ID); stats.PublishedCount != 1 {
		t.Errorf("PublishedCount = %d, want 1 after double publish", stats.PublishedCount)
	}
}

func TestPublishAwardsFirstRide(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "王骑手", "wang@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "滨江夜骑")

	if _, err := env.trips.Publish(trip.ID, user.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	earned, err := env.achievement.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list achievements: %v", err)
	}
	found := false
	for _, ua := range earned {
		if ua.Achievement.Code == "first_ride" {
			found = true
		}
	}
	if !found {
		t.Error("first_ride not awarded after first publish")
	}
}

func TestUpdateVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "赵骑手", "zhao@example.com")

	trip, err := env.trips.Create(user.ID, TripRequest{Title: "原标题"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	updated, err := env.trips.Update(trip.ID, user.ID, TripUpdateRequest{Title: "新标题", Version: 1})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}

	// 带着过期版本再提交
	_, err = env.trips.Update(trip.ID, user.ID, TripUpdateRequest{Title: "并发标题", Version: 1})
	if !errors.Is(err, util.ErrVersionConflict) {
		t.Fatalf("stale update: got %v, want ErrVersionConflict", err)
	}

	current, err := env.trips.GetOwned(trip.ID, user.ID)
	if err != nil {
		t.Fatalf("reload trip: %v", err)
	}
	if current.Title != "新标题" {
		t.Errorf("title = %q, stale update must not win", current.Title)
	}
}

func TestDraftVisibility(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "作者", "author@example.com")
	stranger := env.createUser(t, "路人", "stranger@example.com")

	trip, err := env.trips.Create(author.ID, TripRequest{Title: "未发布的计划"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if _, err := env.trips.GetVisible(trip.ID, stranger.ID); !errors.Is(err, util.ErrTripNotFound) {
		t.Errorf("stranger sees draft: got %v, want ErrTripNotFound", err)
	}
	if _, err := env.trips.GetVisible(trip.ID, 0); !errors.Is(err, util.ErrTripNotFound) {
		t.Errorf("guest sees draft: got %v, want ErrTripNotFound", err)
	}
	if _, err := env.trips.GetVisible(trip.ID, author.ID); err != nil {
		t.Errorf("author cannot see own draft: %v", err)
	}
}

func TestDeleteRevertsStats(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "孙骑手", "sun@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "环湖一日")

	if _, err := env.trips.Publish(trip.ID, user.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := env.trips.Delete(trip.ID, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stats := env.userStats(t, user.ID)
	if stats.TripCount != 0 {
		t.Errorf("TripCount = %d, want 0", stats.TripCount)
	}
	if stats.PublishedCount != 0 {
		t.Errorf("PublishedCount = %d, want 0", stats.PublishedCount)
	}

	if _, err := env.trips.GetOwned(trip.ID, user.ID); !errors.Is(err, util.ErrTripNotFound) {
		t.Errorf("deleted trip still loadable: %v", err)
	}
}

// 删除行程必须在同一事务里扣减标签使用计数，不能等定时任务兜底
func TestDeleteTripDecrementsTagUsage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "贴标签的", "tagdel@example.com")
	first := env.createDraftWithLocation(t, user.ID, "带标签的游记")
	second := env.createDraftWithLocation(t, user.ID, "另一篇")

	tag, err := env.tags.Attach(first.ID, user.ID, "长途骑行")
	if err != nil {
		t.Fatalf("attach tag: %v", err)
	}
	if _, err := env.tags.Attach(second.ID, user.ID, "长途骑行"); err != nil {
		t.Fatalf("attach tag to second trip: %v", err)
	}

	if err := env.trips.Delete(first.ID, user.ID); err != nil {
		t.Fatalf("delete trip: %v", err)
	}

	var reloaded model.Tag
	if err := env.db.First(&reloaded, tag.ID).Error; err != nil {
		t.Fatalf("reload tag: %v", err)
	}
	if reloaded.UsageCount != 1 {
		t.Errorf("UsageCount = %d after trip delete, want 1", reloaded.UsageCount)
	}
}

func TestDeleteOtherUsersTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "主人", "owner@example.com")
	other := env.createUser(t, "别人", "other@example.com")

	trip, err := env.trips.Create(owner.ID, TripRequest{Title: "我的游记"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	if err := env.trips.Delete(trip.ID, other.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("foreign delete: got %v, want ErrPermissionDenied", err)
	}
}
