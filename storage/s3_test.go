package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjects is an in-memory bucket satisfying objectAPI.
type fakeObjects struct {
	objects map[string][]byte
	err     error
	lastPut *s3.PutObjectInput
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = in
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	objects := newFakeObjects()
	store := NewS3Store(objects, "pantry-bucket", "home/")

	t.Run("missing object maps to ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, KeyPantryItems)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		data := []byte(`[{"id":"1","name":"Rice"}]`)
		require.NoError(t, store.Set(ctx, KeyPantryItems, data))

		assert.Contains(t, objects.objects, "pantry-bucket/home/pantryItems.json")
		assert.Equal(t, "application/json", aws.ToString(objects.lastPut.ContentType))

		got, err := store.Get(ctx, KeyPantryItems)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, KeyPantryItems))
		_, err := store.Get(ctx, KeyPantryItems)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("service errors are wrapped", func(t *testing.T) {
		boom := errors.New("access denied")
		failing := NewS3Store(&fakeObjects{objects: map[string][]byte{}, err: boom}, "b", "")

		_, err := failing.Get(ctx, KeyShoppingList)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, failing.Set(ctx, KeyShoppingList, []byte(`[]`)), boom)
		assert.ErrorIs(t, failing.Delete(ctx, KeyShoppingList), boom)
	})
}
