package allocator

import (
	"context"
	"encoding/json"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/meticalabs/smart-floors-external/internal/config"
	"github.com/meticalabs/smart-floors-external/internal/domain"
)

type invokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaTransport registers a model asynchronously: the registration payload
// is handed to a Lambda function as a fire-and-forget event invocation.
type LambdaTransport struct {
	client       invokeAPI
	functionName string
}

func NewLambdaTransport(ctx context.Context, cfg *config.Config) (*LambdaTransport, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading aws config")
	}
	return &LambdaTransport{
		client:       lambda.NewFromConfig(awsCfg),
		functionName: cfg.Allocator.FunctionName,
	}, nil
}

// NewLambdaTransportWithClient wires an explicit client, used by tests.
func NewLambdaTransportWithClient(client invokeAPI, functionName string) *LambdaTransport {
	return &LambdaTransport{client: client, functionName: functionName}
}

func (t *LambdaTransport) Register(ctx context.Context, registration domain.AllocatorRegistration) error {
	payload, err := json.Marshal(registration)
	if err != nil {
		return err
	}

	_, err = t.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   &t.functionName,
		InvocationType: lambdatypes.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		logrus.WithError(err).WithField("function", t.functionName).Error("allocator trigger invocation failed")
		return pkgerrors.Wrapf(err, "invoking %s", t.functionName)
	}

	logrus.WithFields(logrus.Fields{
		"function": t.functionName,
		"endpoint": registration.EndpointName,
		"model":    registration.ModelName,
	}).Info("allocator registration dispatched")
	return nil
}
