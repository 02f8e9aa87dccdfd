package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"

	"printframe/core"
)

type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// NewStore creates a new S3-based store. Designs live under
// designs/<owner>/<id>; assets under assets/<owner>/<ulid>.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	s3Client := s3.NewFromConfig(cfg)

	return &s3Store{
		s3Client: s3Client,
		bucket:   bucketName,
	}
}

func (s *s3Store) designKey(ownerID, designID string) (string, error) {
	// Sanitize designID to prevent path traversal attacks.
	// It should be a simple name, not a path.
	if path.Base(designID) != designID {
		return "", fmt.Errorf("invalid design id: must not be a path")
	}
	if designID == "" || designID == "." || designID == ".." {
		return "", fmt.Errorf("invalid design id: must not be empty or a dot directory")
	}
	return path.Join("designs", ownerID, designID), nil
}

// DesignStore implementation
func (s *s3Store) List(ctx context.Context, ownerID string) ([]*core.SavedDesign, error) {
	prefix := path.Join("designs", ownerID) + "/"
	output, err := s.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list designs for owner %s: %v", ownerID, err)
	}

	designs := make([]*core.SavedDesign, 0, len(output.Contents))
	for _, object := range output.Contents {
		resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    object.Key,
		})
		if err != nil {
			log.Printf("warn: failed to get object %s: %v", *object.Key, err)
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("warn: failed to read object body %s: %v", *object.Key, err)
			continue
		}

		var design core.SavedDesign
		if err := json.Unmarshal(data, &design); err != nil {
			log.Printf("warn: failed to unmarshal design %s: %v", *object.Key, err)
			continue
		}

		// For list view, we don't need the full snapshot blob.
		design.Data = nil
		design.OwnerID = ownerID
		designs = append(designs, &design)
	}

	return designs, nil
}

func (s *s3Store) Get(ctx context.Context, ownerID, id string) (*core.SavedDesign, error) {
	key, err := s.designKey(ownerID, id)
	if err != nil {
		return nil, err
	}
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		// A specific check for NoSuchKey can be useful here.
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("design not found")
		}
		return nil, fmt.Errorf("failed to get design %s: %v", id, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read design data: %v", err)
	}

	var design core.SavedDesign
	if err := json.Unmarshal(data, &design); err != nil {
		return nil, fmt.Errorf("failed to unmarshal design data: %v", err)
	}
	design.OwnerID = ownerID

	return &design, nil
}

func (s *s3Store) Save(ctx context.Context, design *core.SavedDesign) error {
	key, err := s.designKey(design.OwnerID, design.ID)
	if err != nil {
		return err
	}

	// Preserve CreatedAt on update
	if design.CreatedAt.IsZero() {
		existing, err := s.Get(ctx, design.OwnerID, design.ID)
		if err == nil && existing != nil {
			design.CreatedAt = existing.CreatedAt
		} else {
			design.CreatedAt = time.Now()
		}
	}
	design.UpdatedAt = time.Now()

	data, err := json.Marshal(design)
	if err != nil {
		return fmt.Errorf("failed to marshal design: %v", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to save design %s: %v", design.ID, err)
	}
	return nil
}

func (s *s3Store) Delete(ctx context.Context, ownerID, id string) error {
	key, err := s.designKey(ownerID, id)
	if err != nil {
		return err
	}
	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %v", id, err)
	}
	return nil
}

// AssetStore implementation
func (s *s3Store) PutAsset(ctx context.Context, ownerID, name string, data []byte) (string, error) {
	key := path.Join("assets", ownerID, ulid.Make().String())

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload asset %s: %v", name, err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *s3Store) GetAsset(ctx context.Context, uri string) ([]byte, error) {
	key := strings.TrimPrefix(uri, fmt.Sprintf("s3://%s/", s.bucket))
	if key == uri || !strings.HasPrefix(key, "assets/") {
		return nil, fmt.Errorf("asset %s not found", uri)
	}

	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("asset %s not found", uri)
		}
		return nil, fmt.Errorf("failed to get asset %s: %v", uri, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset data: %v", err)
	}
	return data, nil
}
