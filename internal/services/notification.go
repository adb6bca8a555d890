package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	repository "github.com/revorbit/auto-frames/internal/repositories"
	"github.com/revorbit/auto-frames/pkg/sendgrid"
)

const orderConfirmationText = `Hi {{.Name}},

Thanks for your order with REV-orbit Auto Frames.

Order: {{.Order.ID}}
{{range .Order.Items}}- {{.Name}} x{{.Quantity}} @ Rs. {{.UnitPrice.StringFixed 2}}
{{end}}{{if .Order.Design}}- Custom frame: {{.Order.Design.FrameStyle.Name}} in {{.Order.Design.Material.Name}}
{{end}}
Subtotal: Rs. {{.Order.Totals.Subtotal.StringFixed 2}}
Shipping: Rs. {{.Order.Totals.ShippingCost.StringFixed 2}}
Taxes:    Rs. {{.Order.Totals.Taxes.StringFixed 2}}
Discount: Rs. {{.Order.Totals.Discount.StringFixed 2}}
Total:    Rs. {{.Order.Totals.Total.StringFixed 2}}
`

const orderConfirmationHTML = `<h2>Thanks for your order, {{.Name}}</h2>
<p>Order <strong>{{.Order.ID}}</strong></p>
<ul>
{{range .Order.Items}}<li>{{.Name}} &times; {{.Quantity}} at &#8377;{{.UnitPrice.StringFixed 2}}</li>
{{end}}{{if .Order.Design}}<li>Custom frame: {{.Order.Design.FrameStyle.Name}} in {{.Order.Design.Material.Name}}</li>
{{end}}</ul>
<p>Total paid: <strong>&#8377;{{.Order.Totals.Total.StringFixed 2}}</strong></p>
`

var (
	confirmationText = template.Must(template.New("order_confirmation.txt").Parse(orderConfirmationText))
	confirmationHTML = htmltemplate.Must(htmltemplate.New("order_confirmation.html").Parse(orderConfirmationHTML))
)

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) (*models.Notification, error)
	ListOrderNotifications(ctx context.Context, orderID uuid.UUID) ([]*models.Notification, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, emailService: emailService}
}

// SendOrderConfirmation logs the attempt before sending so failed deliveries stay visible.
func (n *notificationService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) (*models.Notification, error) {

	if recipient == "" {
		return nil, errors.BadRequestError("Order has no recipient email")
	}

	data := struct {
		Name  string
		Order *models.Order
	}{Name: order.ShippingAddress.FullName, Order: order}

	if data.Name == "" {
		data.Name = "there"
	}

	var text, html bytes.Buffer

	if err := confirmationText.Execute(&text, data); err != nil {
		return nil, errors.InternalError("Failed to render confirmation email").WithError(err)
	}

	if err := confirmationHTML.Execute(&html, data); err != nil {
		return nil, errors.InternalError("Failed to render confirmation email").WithError(err)
	}

	notification := &models.Notification{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Type:      models.NotificationTypeOrderConfirmation,
		Recipient: recipient,
		Subject:   fmt.Sprintf("Your REV-orbit order %s is confirmed", shortID(order.ID)),
		Status:    models.NotificationStatusPending,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return nil, errors.DatabaseError("Failed to create notification record").WithError(err)
	}

	err := n.emailService.Send(ctx, &models.EmailNotificationRequest{
		To:          recipient,
		Subject:     notification.Subject,
		Content:     text.String(),
		HTMLContent: html.String(),
		Category:    string(models.NotificationTypeOrderConfirmation),
		OrderID:     order.ID.String(),
	})

	if err != nil {
		notification.Status = models.NotificationStatusFailed
		notification.ErrorMessage = err.Error()

		_ = n.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusFailed, notification.ErrorMessage)

		return nil, errors.ThirdPartyError("Failed to send email").WithError(err)
	}

	notification.Status = models.NotificationStatusSent

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.NotificationStatusSent, ""); err != nil {
		return nil, errors.DatabaseError("Email sent but failed to update notification status").WithError(err)
	}

	return notification, nil
}

func (n *notificationService) ListOrderNotifications(ctx context.Context, orderID uuid.UUID) ([]*models.Notification, error) {

	notifications, err := n.repo.ListNotificationsByOrder(ctx, orderID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list notifications").WithError(err)
	}

	return notifications, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
