package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ridelog_backend/internal/model"
	"ridelog_backend/internal/util"
)

// photoFileHeader 构造带 PNG 魔数的 multipart 文件，够通过 MIME 嗅探
func photoFileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()

	content := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestUploadPhotosAppendsPositions(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "摄影师", "photo1@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "山路随拍")

	first, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, "a.png"), "垭口")
	if err != nil {
		t.Fatalf("upload first photo: %v", err)
	}
	second, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, "b.png"), "")
	if err != nil {
		t.Fatalf("upload second photo: %v", err)
	}

	if first.Position != 1 || second.Position != 2 {
		t.Errorf("positions = %d, %d, want 1, 2", first.Position, second.Position)
	}
	if stats := env.userStats(t, user.ID); stats.PhotoCount != 2 {
		t.Errorf("PhotoCount = %d, want 2", stats.PhotoCount)
	}
}

func TestUploadPhotoEnforcesLimit(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "摄影师", "photo2@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "满额游记")

	for i := 0; i < util.MaxPhotosPerTrip; i++ {
		photo := &model.TripPhoto{TripID: trip.ID, Position: i + 1, ObjectKey: "seed"}
		if err := env.photoRepo.Create(photo); err != nil {
			t.Fatalf("seed photo %d: %v", i+1, err)
		}
	}

	_, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, "over.png"), "")
	if !errors.Is(err, util.ErrPhotoLimitReached) {
		t.Errorf("Upload over limit = %v, want ErrPhotoLimitReached", err)
	}
}

// 删除末位照片后再上传，新照片必须能落回被释放的位置
func TestUploadAfterDeleteReusesPosition(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "摄影师", "photo3@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "增删交替")

	if _, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, "a.png"), ""); err != nil {
		t.Fatalf("upload first photo: %v", err)
	}
	second, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, "b.png"), "")
	if err != nil {
		t.Fatalf("upload second photo: %v", err)
	}

	if err := env.photos.Delete(context.Background(), trip.ID, user.ID, second.ID); err != nil {
		t.Fatalf("delete photo: %v", err)
	}

	replacement, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, "c.png"), "")
	if err != nil {
		t.Fatalf("upload after delete: %v", err)
	}
	if replacement.Position != 2 {
		t.Errorf("replacement position = %d, want 2", replacement.Position)
	}

	photos, err := env.photos.List(trip.ID)
	if err != nil {
		t.Fatalf("list photos: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("photo count = %d, want 2", len(photos))
	}
	if stats := env.userStats(t, user.ID); stats.PhotoCount != 2 {
		t.Errorf("PhotoCount = %d, want 2", stats.PhotoCount)
	}
}

func TestReorderPhotos(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "摄影师", "photo4@example.com")
	trip := env.createDraftWithLocation(t, user.ID, "重排相册")

	var ids []uint
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		photo, err := env.photos.Upload(context.Background(), trip.ID, user.ID, photoFileHeader(t, name), "")
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
		ids = append(ids, photo.ID)
	}

	reversed := []uint{ids[2], ids[1], ids[0]}
	photos, err := env.photos.Reorder(trip.ID, user.ID, reversed)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	for i, photo := range photos {
		if photo.ID != reversed[i] {
			t.Errorf("photos[%d].ID = %d, want %d", i, photo.ID, reversed[i])
		}
		if photo.Position != i+1 {
			t.Errorf("photos[%d].Position = %d, want %d", i, photo.Position, i+1)
		}
	}

	// 传入的 ID 数量与现存照片不一致时拒绝
	if _, err := env.photos.Reorder(trip.ID, user.ID, reversed[:2]); !errors.Is(err, util.ErrPhotoNotFound) {
		t.Errorf("partial reorder = %v, want ErrPhotoNotFound", err)
	}
}

func TestPhotoOwnershipChecks(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "主人", "photo5@example.com")
	stranger := env.createUser(t, "路人", "photo6@example.com")
	trip := env.createDraftWithLocation(t, owner.ID, "别人的相册")

	photo, err := env.photos.Upload(context.Background(), trip.ID, owner.ID, photoFileHeader(t, "a.png"), "")
	if err != nil {
		t.Fatalf("upload photo: %v", err)
	}

	if _, err := env.photos.Upload(context.Background(), trip.ID, stranger.ID, photoFileHeader(t, "b.png"), ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("stranger upload = %v, want ErrPermissionDenied", err)
	}
	if err := env.photos.Delete(context.Background(), trip.ID, stranger.ID, photo.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("stranger delete = %v, want ErrPermissionDenied", err)
	}
	if err := env.photos.UpdateCaption(trip.ID, stranger.ID, photo.ID, "改错人"); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("stranger caption = %v, want ErrPermissionDenied", err)
	}
}
