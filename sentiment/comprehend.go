package sentiment

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/user/storefront-go/config"
)

// ComprehendClassifier classifies text with AWS Comprehend's DetectSentiment.
// Credentials come from the standard AWS resolution chain; only the region
// and language code are configured here.
type ComprehendClassifier struct {
	client       *comprehend.Client
	languageCode types.LanguageCode
}

// NewComprehendClassifier builds a classifier from the sentiment configuration.
func NewComprehendClassifier(ctx context.Context, cfg *config.SentimentConfig) (*ComprehendClassifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &ComprehendClassifier{
		client:       comprehend.NewFromConfig(awsCfg),
		languageCode: types.LanguageCode(cfg.LanguageCode),
	}, nil
}

// Detect calls DetectSentiment and maps the result onto the fixed label set.
func (c *ComprehendClassifier) Detect(ctx context.Context, text string) (Label, error) {
	out, err := c.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: c.languageCode,
	})
	if err != nil {
		return "", fmt.Errorf("detect sentiment: %w", err)
	}

	switch out.Sentiment {
	case types.SentimentTypePositive:
		return Positive, nil
	case types.SentimentTypeNegative:
		return Negative, nil
	case types.SentimentTypeNeutral:
		return Neutral, nil
	case types.SentimentTypeMixed:
		return Mixed, nil
	default:
		return "", fmt.Errorf("unrecognized sentiment %q in collaborator response", out.Sentiment)
	}
}
