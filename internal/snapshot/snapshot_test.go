package snapshot

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"counter", true},
		{"todo-list_v2.1", true},
		{"", false},
		{"../etc", false},
		{"a/b", false},
		{".hidden", false},
		{"with space", false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateName(%q) = %v", tt.name, err)
		}
		if err != nil && (!stderrors.Is(err, ErrInvalidName) || !errors.HasCode(err, "S301")) {
			t.Errorf("ValidateName(%q) error = %v, want S301 wrapping ErrInvalidName", tt.name, err)
		}
	}
}

func TestNew(t *testing.T) {
	a, err := New("page", []byte("<p></p>"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := New("page", nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
	if a.Key() != "page/"+a.ID+".html" {
		t.Errorf("Key() = %q", a.Key())
	}
	if _, err := New("bad name", nil); err == nil {
		t.Error("expected invalid name error")
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	first, _ := New("counter", []byte("<p>0</p>"))
	second, _ := New("counter", []byte("<p>1</p>"))
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	ctx := context.Background()
	path, err := store.Save(ctx, second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>1</p>" {
		t.Errorf("file content = %q", data)
	}

	ids, err := store.List("counter")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != first.ID || ids[1] != second.ID {
		t.Errorf("List = %v, want oldest first", ids)
	}

	bad := &Snapshot{ID: "x", Name: "../escape"}
	if _, err := store.Save(ctx, bad); !stderrors.Is(err, ErrInvalidName) {
		t.Errorf("Save(bad) = %v", err)
	}
}

func TestFileStoreCanceledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap, _ := New("x", nil)
	if _, err := store.Save(ctx, snap); !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "bucket", "renders")

	snap, _ := New("todo", []byte("<ul></ul>"))
	loc, err := store.Save(context.Background(), snap)
	if err != nil {
		t.Fatal(err)
	}

	wantKey := "renders/todo/" + snap.ID + ".html"
	if loc != "s3://bucket/"+wantKey {
		t.Errorf("location = %q", loc)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d", len(client.inputs))
	}
	in := client.inputs[0]
	if aws.ToString(in.Bucket) != "bucket" || aws.ToString(in.Key) != wantKey {
		t.Errorf("put %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if !strings.HasPrefix(aws.ToString(in.ContentType), "text/html") {
		t.Errorf("content type = %q", aws.ToString(in.ContentType))
	}
	if in.Metadata["snapshot-id"] != snap.ID || client.bodies[0] != "<ul></ul>" {
		t.Errorf("metadata = %v body = %q", in.Metadata, client.bodies[0])
	}
}

func TestS3StoreError(t *testing.T) {
	cause := stderrors.New("access denied")
	store := NewS3Store(&fakeS3{err: cause}, "bucket", "")
	snap, _ := New("x", nil)

	_, err := store.Save(context.Background(), snap)
	if !errors.HasCode(err, "S302") || !stderrors.Is(err, cause) {
		t.Errorf("err = %v, want S302 wrapping the cause", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(config.SnapshotConfig{Backend: config.BackendFile}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if fs, ok := store.(*FileStore); !ok || fs.Dir() != dir {
		t.Errorf("store = %#v", store)
	}

	store, err = Open(config.SnapshotConfig{Backend: config.BackendS3, Bucket: "b", Region: "us-east-1"}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*S3Store); !ok {
		t.Errorf("store = %T", store)
	}

	if _, err := Open(config.SnapshotConfig{Backend: "ftp"}, dir); !errors.HasCode(err, "C201") {
		t.Errorf("err = %v", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); !errors.HasCode(err, "S302") {
		t.Errorf("err = %v", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil || creds.AccessKeyID != "id" {
		t.Errorf("creds = %+v, err = %v", creds, err)
	}
}
