package mail

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Scope is needed both to read messages and to clear their UNREAD label.
const Scope = gmail.GmailModifyScope

const user = "me"

// Gmail is a mailbox backed by the Gmail API.
type Gmail struct {
	service *gmail.Service
	logger  *slog.Logger
}

// NewGmail creates a Gmail mailbox. Extra options (endpoint overrides in tests) are passed to the service.
func NewGmail(ctx context.Context, httpClient *http.Client, logger *slog.Logger, opts ...option.ClientOption) (mailbox *Gmail, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	var srv *gmail.Service
	srv, err = gmail.NewService(ctx, opts...)
	if err != nil {
		err = errors.Wrap(err, "unable to create Gmail client")
		return mailbox, err
	}

	mailbox = &Gmail{
		service: srv,
		logger:  logger,
	}

	return mailbox, err
}

// UnreadJobMessages lists up to limit unread job alerts and decodes each one.
// A message that can't be fetched is logged and skipped.
func (g *Gmail) UnreadJobMessages(ctx context.Context, limit int) (messages []Message, err error) {
	var list *gmail.ListMessagesResponse
	list, err = g.service.Users.Messages.List(user).Q(JobAlertQuery).MaxResults(int64(limit)).Context(ctx).Do()
	if err != nil {
		err = errors.Wrap(err, "unable to list messages")
		return messages, err
	}

	messages = make([]Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		var full *gmail.Message
		full, err = g.service.Users.Messages.Get(user, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			g.logger.Warn("unable to retrieve message", "message_id", ref.Id, "error", err)
			err = nil
			continue
		}

		msg := Message{
			ID:      full.Id,
			Subject: Header(full.Payload, "Subject"),
			From:    Header(full.Payload, "From"),
			Body:    ExtractBody(full.Payload),
		}

		if !IsJobAlert(msg.From, msg.Subject) {
			g.logger.Debug("skipping non-alert message", "message_id", msg.ID, "from", msg.From)
			continue
		}

		messages = append(messages, msg)
	}

	return messages, err
}

// MarkRead clears the UNREAD label.
func (g *Gmail) MarkRead(ctx context.Context, id string) (err error) {
	req := &gmail.ModifyMessageRequest{RemoveLabelIds: []string{"UNREAD"}}
	_, err = g.service.Users.Messages.Modify(user, id, req).Context(ctx).Do()
	if err != nil {
		err = errors.Wrapf(err, "unable to mark message %s read", id)
		return err
	}
	return err
}
