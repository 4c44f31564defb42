package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fitclub/planner/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeySortsChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	early := objectKey(KindWorkout, "c1", base, "ffff")
	late := objectKey(KindWorkout, "c1", base.Add(time.Millisecond), "0000")

	assert.True(t, strings.HasPrefix(early, "plans/c1/workout/"))
	assert.True(t, strings.HasSuffix(early, ".json"))
	assert.Less(t, early, late)
}

func TestNopArchive(t *testing.T) {
	a, err := NewPlanArchive(context.Background(), config.S3Config{})
	require.NoError(t, err)

	key, err := a.Put(context.Background(), KindNutrition, "c1", map[string]int{"a": 1})
	assert.NoError(t, err)
	assert.Empty(t, key)

	_, err = a.LatestURL(context.Background(), KindNutrition, "c1", 0)
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

// fakeS3 answers PutObject and ListObjectsV2 for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[strings.TrimPrefix(r.URL.Path, "/plans-bucket/")] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		p := r.URL.Query().Get("prefix")
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>plans-bucket</Name><IsTruncated>false</IsTruncated>`)
		for k := range f.objects {
			if strings.HasPrefix(k, p) {
				sb.WriteString("<Contents><Key>" + k + "</Key></Contents>")
			}
		}
		sb.WriteString("</ListBucketResult>")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, sb.String())
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Archive_PutAndLatest(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	a, err := NewS3Archive(context.Background(), config.S3Config{
		Enabled:         true,
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "plans-bucket",
	})
	require.NoError(t, err)

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a.(*s3Archive).now = func() time.Time { return clock }
	first, err := a.Put(context.Background(), KindWorkout, "c1", map[string]string{"v": "1"})
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	second, err := a.Put(context.Background(), KindWorkout, "c1", map[string]string{"v": "2"})
	require.NoError(t, err)

	var stored map[string]string
	require.NoError(t, json.Unmarshal(fake.objects[second], &stored))
	assert.Equal(t, "2", stored["v"])
	assert.Less(t, first, second)

	url, err := a.LatestURL(context.Background(), KindWorkout, "c1", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, second)
	assert.Contains(t, url, "X-Amz-Signature")

	_, err = a.LatestURL(context.Background(), KindNutrition, "c1", time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
