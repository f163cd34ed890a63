package syncer

import (
	"context"
	"io/ioutil"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

// RemoteObject is one object listed from remote storage.
type RemoteObject struct {
	Key          string
	LastModified time.Time
}

// ObjectStore is the remote storage surface the sync engine needs: list by
// prefix, fetch and delete by key.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]RemoteObject, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// S3ObjectStore implements ObjectStore on top of the AWS SDK.
type S3ObjectStore struct {
	bucket string
	svc    *s3.S3
}

func NewS3ObjectStore(bucket string) (*S3ObjectStore, error) {
	// AWS client session, credentials from the default chain
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create AWS session")
	}

	return &S3ObjectStore{
		bucket: bucket,
		svc:    s3.New(sess),
	}, nil
}

func (s *S3ObjectStore) List(ctx context.Context, prefix string) ([]RemoteObject, error) {
	objects := []RemoteObject{}
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}

	for {
		output, err := s.svc.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, errors.Wrap(err, "fail to list objects under "+prefix)
		}
		for _, obj := range output.Contents {
			objects = append(objects, RemoteObject{
				Key:          aws.StringValue(obj.Key),
				LastModified: aws.TimeValue(obj.LastModified),
			})
		}
		if !aws.BoolValue(output.IsTruncated) {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}
	return objects, nil
}

func (s *S3ObjectStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	output, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to get object "+key)
	}
	defer output.Body.Close()

	bytes, err := ioutil.ReadAll(output.Body)
	if err != nil {
		return nil, errors.Wrap(err, "fail to read object body "+key)
	}
	return bytes, nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrap(err, "fail to delete object "+key)
	}
	return nil
}
