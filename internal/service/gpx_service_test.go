package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"ridelog_backend/internal/util"
	"ridelog_backend/pkg/gpx"
)

// 赤道上约 1000 米对应的经度差
const lonStepPerKm = 0.0089932160591873

func buildGPX(t *testing.T, pointCount int, start time.Time, stepSeconds int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><gpx version="1.1"><trk><trkseg>`)
	for i := 0; i < pointCount; i++ {
		ts := start.Add(time.Duration(i*stepSeconds) * time.Second)
		fmt.Fprintf(&b, `<trkpt lat="0" lon="%.13f"><ele>50</ele><time>%s</time></trkpt>`,
			float64(i)*lonStepPerKm, ts.UTC().Format(time.RFC3339))
	}
	b.WriteString(`</trkseg></trk></gpx>`)
	return b.String()
}

func TestProcessUploadStoresRouteAndStats(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "轨迹手", "gpx@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "沿海骑行"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	body := buildGPX(t, 3, start, 120)

	route, err := env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(body))
	if err != nil {
		t.Fatalf("process upload: %v", err)
	}

	if math.Abs(route.DistanceM-2000) > 5 {
		t.Errorf("DistanceM = %.1f, want ~2000", route.DistanceM)
	}
	if !route.HasTiming {
		t.Error("HasTiming = false for timestamped track")
	}
	if route.MovingSeconds != 240 {
		t.Errorf("MovingSeconds = %d, want 240", route.MovingSeconds)
	}
	if route.PointCount != 3 {
		t.Errorf("PointCount = %d, want 3", route.PointCount)
	}

	// 共线轨迹简化后只剩端点
	var polyline [][2]float64
	if err := json.Unmarshal(route.Polyline, &polyline); err != nil {
		t.Fatalf("decode polyline: %v", err)
	}
	if len(polyline) != 2 {
		t.Errorf("polyline points = %d, want 2", len(polyline))
	}

	reloaded, err := env.trips.GetOwned(trip.ID, user.ID)
	if err != nil {
		t.Fatalf("reload trip: %v", err)
	}
	if math.Abs(reloaded.DistanceM-route.DistanceM) > 0.01 {
		t.Errorf("trip DistanceM = %.1f, want %.1f", reloaded.DistanceM, route.DistanceM)
	}

	stats := env.userStats(t, user.ID)
	if math.Abs(stats.TotalDistanceM-route.DistanceM) > 0.01 {
		t.Errorf("TotalDistanceM = %.1f, want %.1f", stats.TotalDistanceM, route.DistanceM)
	}
}

func TestProcessUploadReplacesPreviousRoute(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "轨迹手", "gpx2@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "重复上传"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	if _, err := env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(buildGPX(t, 3, start, 120))); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	// 换一条更短的轨迹，累计里程应被替换而不是叠加
	route, err := env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(buildGPX(t, 2, start, 120)))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if math.Abs(route.DistanceM-1000) > 5 {
		t.Errorf("DistanceM = %.1f, want ~1000", route.DistanceM)
	}

	stats := env.userStats(t, user.ID)
	if math.Abs(stats.TotalDistanceM-route.DistanceM) > 0.01 {
		t.Errorf("TotalDistanceM = %.1f after replace, want %.1f", stats.TotalDistanceM, route.DistanceM)
	}
}

func TestProcessUploadRejectsMalformedFile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "轨迹手", "gpx3@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "坏文件"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	_, err = env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader("not gpx at all"))
	if !errors.Is(err, gpx.ErrMalformedXML) {
		t.Fatalf("malformed upload: got %v, want ErrMalformedXML", err)
	}

	if _, err := env.gpx.GetRoute(trip.ID); !errors.Is(err, util.ErrRouteNotFound) {
		t.Errorf("route persisted after failed upload: %v", err)
	}
}

func TestProcessUploadRejectsOversizeFile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "轨迹手", "gpx4@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "超大文件"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	// 配置上限 1MB
	huge := "<gpx>" + strings.Repeat(" ", 1<<20+1024)
	_, err = env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(huge))
	if !errors.Is(err, util.ErrGPXTooLarge) {
		t.Fatalf("oversize upload: got %v, want ErrGPXTooLarge", err)
	}
}

func TestProcessUploadForeignTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "主人", "gpx-owner@example.com")
	other := env.createUser(t, "别人", "gpx-other@example.com")
	trip, err := env.trips.Create(owner.ID, TripRequest{Title: "别人的轨迹"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	_, err = env.gpx.ProcessUpload(trip.ID, other.ID, strings.NewReader(buildGPX(t, 3, start, 120)))
	if !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("foreign upload: got %v, want ErrPermissionDenied", err)
	}
}

func TestDeleteRouteRevertsTotals(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "轨迹手", "gpx5@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "删轨迹"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	if _, err := env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(buildGPX(t, 3, start, 120))); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := env.gpx.DeleteRoute(trip.ID, user.ID); err != nil {
		t.Fatalf("delete route: %v", err)
	}

	if _, err := env.gpx.GetRoute(trip.ID); !errors.Is(err, util.ErrRouteNotFound) {
		t.Errorf("route still present: %v", err)
	}
	stats := env.userStats(t, user.ID)
	if stats.TotalDistanceM != 0 {
		t.Errorf("TotalDistanceM = %.1f after route delete, want 0", stats.TotalDistanceM)
	}

	reloaded, err := env.trips.GetOwned(trip.ID, user.ID)
	if err != nil {
		t.Fatalf("reload trip: %v", err)
	}
	if reloaded.DistanceM != 0 {
		t.Errorf("trip DistanceM = %.1f after route delete, want 0", reloaded.DistanceM)
	}
}

// 删除路线后必须能重新上传，trip_id 唯一索引不能被已删行占住
func TestReuploadAfterRouteDelete(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "轨迹手", "gpx6@example.com")
	trip, err := env.trips.Create(user.ID, TripRequest{Title: "删了再传"})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	if _, err := env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(buildGPX(t, 3, start, 120))); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if err := env.gpx.DeleteRoute(trip.ID, user.ID); err != nil {
		t.Fatalf("delete route: %v", err)
	}

	route, err := env.gpx.ProcessUpload(trip.ID, user.ID, strings.NewReader(buildGPX(t, 3, start, 120)))
	if err != nil {
		t.Fatalf("re-upload after delete: %v", err)
	}

	// 统计只计入最新一次上传
	stats := env.userStats(t, user.ID)
	if math.Abs(stats.TotalDistanceM-route.DistanceM) > 0.01 {
		t.Errorf("TotalDistanceM = %.1f, want %.1f", stats.TotalDistanceM, route.DistanceM)
	}
	if stats.TripCount != 1 {
		t.Errorf("TripCount = %d, want 1", stats.TripCount)
	}
}
