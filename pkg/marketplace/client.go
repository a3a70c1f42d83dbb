package marketplace

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/mturk"
	"github.com/aws/smithy-go"
	"github.com/ljbaker/turkhit/pkg/hit"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Region is the only region the requester API is served from.
const Region = "us-east-1"

// Credentials is the requester key pair used to sign calls.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// API is the subset of the MTurk client used here.
type API interface {
	CreateHIT(ctx context.Context, params *mturk.CreateHITInput, optFns ...func(*mturk.Options)) (*mturk.CreateHITOutput, error)
}

// Created holds the identifiers of a newly posted HIT.
type Created struct {
	HITID        string
	HITTypeID    string
	HITGroupID   string
	CreationTime time.Time
	Expiration   time.Time
}

// Client posts HITs to one marketplace endpoint.
type Client struct {
	api      API
	endpoint Endpoint
}

// NewClient builds a signed client for endpoint. The SDK retryer is capped at
// a single attempt: a failed create is never resubmitted.
func NewClient(ctx context.Context, endpoint Endpoint, creds Credentials, optFns ...func(*mturk.Options)) (*Client, error) {
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, errors.New("marketplace credentials are empty")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, ""),
		),
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), 1)
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	opts := append([]func(*mturk.Options){
		func(o *mturk.Options) {
			o.BaseEndpoint = aws.String(endpoint.URL)
		},
	}, optFns...)
	return NewClientWithAPI(mturk.NewFromConfig(cfg, opts...), endpoint), nil
}

// NewClientWithAPI wraps an existing API implementation.
func NewClientWithAPI(api API, endpoint Endpoint) *Client {
	return &Client{api: api, endpoint: endpoint}
}

// CreateHIT submits req once and returns the identifiers assigned by the
// service.
func (c *Client) CreateHIT(ctx context.Context, req hit.Request) (*Created, error) {
	input, err := req.Input()
	if err != nil {
		return nil, err
	}

	zap.L().Debug("creating HIT",
		zap.String("endpoint", c.endpoint.URL),
		zap.String("title", req.Title),
		zap.Int32("maxAssignments", req.MaxAssignments),
		zap.String("reward", hit.FormatReward(req.Reward)))

	out, err := c.api.CreateHIT(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, errors.Wrapf(err, "marketplace rejected HIT (%s)", apiErr.ErrorCode())
		}
		return nil, errors.Wrap(err, "failed to create HIT")
	}
	if out == nil || out.HIT == nil || aws.ToString(out.HIT.HITId) == "" {
		return nil, errors.New("marketplace returned no HIT")
	}

	return &Created{
		HITID:        aws.ToString(out.HIT.HITId),
		HITTypeID:    aws.ToString(out.HIT.HITTypeId),
		HITGroupID:   aws.ToString(out.HIT.HITGroupId),
		CreationTime: aws.ToTime(out.HIT.CreationTime),
		Expiration:   aws.ToTime(out.HIT.Expiration),
	}, nil
}
