package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	c "streemi/internal/core/domain/common"
	"streemi/internal/core/domain/notification"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SES sends templated emails. Templates are stored in Amazon SES and
// rendered there with the notification context as template data.
type SES struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender    string
	templates map[notification.TemplateID]string
}

func NewSES(awsConfig aws.Config, sender string, templates map[notification.TemplateID]string) *SES {
	return &SES{
		ses:       ses.NewFromConfig(awsConfig),
		sender:    sender,
		templates: templates,
	}
}

func (s *SES) Send(
	ctx context.Context,
	to c.Email,
	template notification.TemplateID,
	context notification.Context,
) error {
	sesTemplate, ok := s.templates[template]
	if !ok {
		return fmt.Errorf("no SES template configured for %s", template)
	}

	templateParamsBytes, err := json.Marshal(context)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(to)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &sesTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}
