package cognito

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/wa-otp-auth/internal/domain"
)

// callTimeout bounds every directory call. The trigger contract requires a
// decision on each invocation, so a hung directory call must not outlive the
// caller's own request timeout.
const callTimeout = 5 * time.Second

// Directory provides typed operations against the identity directory. It is
// the only place raw directory attributes are read or written; everything
// above it works with the normalized domain.UserRecord.
type Directory struct {
	client *cognitoidentityprovider.Client
}

func NewDirectory(client *cognitoidentityprovider.Client) *Directory {
	return &Directory{client: client}
}

// GetUser loads and normalizes an identity.
func (d *Directory) GetUser(ctx context.Context, poolID, username string) (*domain.UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := d.client.AdminGetUser(ctx, &cognitoidentityprovider.AdminGetUserInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("get user %q: %w", username, domain.ErrNoSuchUser)
		}
		return nil, fmt.Errorf("get user %q: %v: %w", username, err, domain.ErrDirectoryLookup)
	}

	attrs := make(map[string]string, len(out.UserAttributes))
	for _, a := range out.UserAttributes {
		attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}

	return &domain.UserRecord{
		Username:         username,
		Confirmed:        out.UserStatus == types.UserStatusTypeConfirmed,
		PhoneVerified:    domain.AttrBool(attrs[domain.AttrPhoneNumberVerified]),
		WhatsAppVerified: domain.AttrBool(attrs[domain.AttrWhatsAppVerified]),
		AuthPurpose:      attrs[domain.AttrAuthPurpose],
		Attributes:       attrs,
	}, nil
}

// UpdateAttributes patches the given attributes on an identity.
func (d *Directory) UpdateAttributes(ctx context.Context, poolID, username string, attrs map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	userAttrs := make([]types.AttributeType, 0, len(attrs))
	for name, value := range attrs {
		userAttrs = append(userAttrs, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}
	_, err := d.client.AdminUpdateUserAttributes(ctx, &cognitoidentityprovider.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(poolID),
		Username:       aws.String(username),
		UserAttributes: userAttrs,
	})
	if err != nil {
		return fmt.Errorf("update attributes for %q: %v: %w", username, err, domain.ErrDirectoryWrite)
	}
	return nil
}

// ConfirmSignUp moves an UNCONFIRMED identity to CONFIRMED.
func (d *Directory) ConfirmSignUp(ctx context.Context, poolID, username string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	_, err := d.client.AdminConfirmSignUp(ctx, &cognitoidentityprovider.AdminConfirmSignUpInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return fmt.Errorf("confirm %q: %v: %w", username, err, domain.ErrDirectoryWrite)
	}
	return nil
}

// DescribeClientName returns the human-readable name registered for an
// application client id.
func (d *Directory) DescribeClientName(ctx context.Context, poolID, clientID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := d.client.DescribeUserPoolClient(ctx, &cognitoidentityprovider.DescribeUserPoolClientInput{
		UserPoolId: aws.String(poolID),
		ClientId:   aws.String(clientID),
	})
	if err != nil {
		return "", fmt.Errorf("describe client %q: %v: %w", clientID, err, domain.ErrDirectoryLookup)
	}
	if out.UserPoolClient == nil {
		return "", fmt.Errorf("describe client %q: empty response: %w", clientID, domain.ErrDirectoryLookup)
	}
	return aws.ToString(out.UserPoolClient.ClientName), nil
}
