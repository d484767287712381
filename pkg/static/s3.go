package static

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/strada-dev/strada"
)

// ObjectGetter is the slice of the S3 client the bucket resolver needs.
// *s3.Client satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Bucket serves files from an S3 bucket under the given key prefix.
//
//	client := s3.NewFromConfig(cfg)
//	app.Static("/assets/*", static.Bucket(client, "my-bucket", "site/"))
//
// A missing object reports not-found so dispatch falls through; any other
// S3 failure surfaces as a resolver error. Content type and length come
// from the object's metadata.
func Bucket(client ObjectGetter, bucket, prefix string) strada.Resolver {
	prefix = strings.TrimPrefix(prefix, "/")

	return func(req *http.Request, parts []string) (*strada.Response, error) {
		rel, ok := relPath(parts)
		if !ok {
			return nil, nil
		}

		out, err := client.GetObject(req.Context(), &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(path.Join(prefix, rel)),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				return nil, nil
			}
			return nil, err
		}

		ctype := aws.ToString(out.ContentType)
		if ctype == "" {
			ctype = "application/octet-stream"
		}

		resp := &strada.Response{
			Status: http.StatusOK,
			Body:   out.Body,
		}
		resp.SetHeader("Content-Type", ctype)
		if length := aws.ToInt64(out.ContentLength); length > 0 {
			resp.SetHeader("Content-Length", strconv.FormatInt(length, 10))
		}
		return resp, nil
	}
}
