// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package publish uploads OpenNext static assets to the stack's bucket
// outside of a CloudFormation deployment and invalidates the distribution.
// Each object is written once with the cache-control of its class.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tfctl/edgestack/internal/assets"
	awsutil "github.com/tfctl/edgestack/internal/aws"
	"github.com/tfctl/edgestack/internal/log"
)

// DefaultConcurrency bounds parallel uploads.
const DefaultConcurrency = 8

// InvalidationPath is the path invalidated after an upload.
const InvalidationPath = "/*"

const defaultContentType = "application/octet-stream"

// ErrNoAssets is returned when the assets directory holds no files.
var ErrNoAssets = errors.New("no assets to publish")

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Invalidator is the subset of the CloudFront client used for invalidations.
type Invalidator interface {
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

// Object is one file scheduled for upload.
type Object struct {
	Key         string
	Path        string
	Size        int64
	Class       assets.Class
	ContentType string
}

// Options configure a publish run.
type Options struct {
	// Dir is the assets directory, normally <build>/assets.
	Dir            string
	Bucket         string
	DistributionID string
	Concurrency    int
	// DryRun plans without calling AWS.
	DryRun bool
}

// Result summarizes a publish run.
type Result struct {
	Objects        []Object
	Bytes          int64
	ByClass        map[assets.Class]int
	InvalidationID string
}

// String renders a one-line summary.
func (r *Result) String() string {
	s := fmt.Sprintf("%d objects (%s): %d immutable, %d revalidate",
		len(r.Objects), humanize.Bytes(uint64(r.Bytes)), r.ByClass[assets.Immutable], r.ByClass[assets.Revalidate])
	if r.InvalidationID != "" {
		s += ", invalidation " + r.InvalidationID
	}
	return s
}

// Plan walks dir and classifies every regular file. Objects are ordered by
// key.
func Plan(dir string) ([]Object, error) {
	var objects []Object

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		key := filepath.ToSlash(rel)
		objects = append(objects, Object{
			Key:         key,
			Path:        p,
			Size:        info.Size(),
			Class:       assets.Classify(key),
			ContentType: ContentType(key),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning assets: %w", err)
	}

	if len(objects) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAssets, dir)
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// ContentType guesses the MIME type from the key's extension.
func ContentType(key string) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return defaultContentType
}

// Publisher uploads assets and invalidates the distribution.
type Publisher struct {
	S3         ObjectPutter
	CloudFront Invalidator
}

// Publish uploads every planned object with bounded concurrency, then
// invalidates InvalidationPath when a distribution id is configured. The
// first upload failure cancels the remaining uploads.
func (p *Publisher) Publish(ctx context.Context, opts Options) (*Result, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	objects, err := Plan(opts.Dir)
	if err != nil {
		return nil, err
	}

	result := &Result{Objects: objects, ByClass: map[assets.Class]int{}}
	for _, o := range objects {
		result.Bytes += o.Size
		result.ByClass[o.Class]++
	}

	if opts.DryRun {
		log.Infof("dry run: %s", result)
		return result, nil
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	uploaded := 0
	for _, o := range objects {
		g.Go(func() error {
			if err := p.put(gctx, opts.Bucket, o); err != nil {
				return err
			}
			mu.Lock()
			uploaded++
			mu.Unlock()
			log.Debugf("uploaded s3://%s/%s (%s)", opts.Bucket, o.Key, o.Class)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("uploaded %d of %d objects: %w", uploaded, len(objects), err)
	}

	if opts.DistributionID != "" {
		id, err := p.invalidate(ctx, opts.DistributionID)
		if err != nil {
			return result, err
		}
		result.InvalidationID = id
	}

	log.Infof("published %s", result)
	return result, nil
}

func (p *Publisher) put(ctx context.Context, bucket string, o Object) error {
	f, err := os.Open(o.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", o.Path, err)
	}
	defer f.Close()

	_, err = p.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(o.Key),
		Body:          f,
		ContentLength: aws.Int64(o.Size),
		ContentType:   aws.String(o.ContentType),
		CacheControl:  aws.String(o.Class.CacheControl()),
	})
	return awsutil.Friendly(err, "uploading "+o.Key)
}

func (p *Publisher) invalidate(ctx context.Context, distributionID string) (string, error) {
	out, err := p.CloudFront.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(uuid.NewString()),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{InvalidationPath},
			},
		},
	})
	if err != nil {
		return "", awsutil.Friendly(err, "invalidating "+distributionID)
	}

	id := ""
	if out.Invalidation != nil {
		id = aws.ToString(out.Invalidation.Id)
	}
	return id, nil
}
