package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/laguntza/contactmail/internal/service"
	"github.com/laguntza/contactmail/middlewares"
	"github.com/laguntza/contactmail/pkg/mailer"
)

type sendEmailRequest struct {
	To          mailer.Addresses    `json:"to" validate:"required,min=1,dive,email"`
	CC          mailer.Addresses    `json:"cc,omitempty" validate:"omitempty,dive,email"`
	BCC         mailer.Addresses    `json:"bcc,omitempty" validate:"omitempty,dive,email"`
	ReplyTo     mailer.Addresses    `json:"replyTo,omitempty" validate:"omitempty,dive,email"`
	From        string              `json:"from,omitempty" validate:"omitempty,email"`
	Subject     string              `json:"subject" validate:"required,min=1,max=998"`
	Text        string              `json:"text,omitempty"`
	HTML        string              `json:"html,omitempty"`
	Attachments []mailer.Attachment `json:"attachments,omitempty" validate:"omitempty,dive"`
}

func (r sendEmailRequest) contentPath() string { return "text" }
func (r sendEmailRequest) hasContent() bool { return r.Text != "" || r.HTML != "" }

type sendBulkRequest struct {
	Emails   []mailer.BulkRecipient `json:"emails" validate:"required,min=1,max=100,dive"`
	Template mailer.BulkTemplate    `json:"template"`
}

func (r sendBulkRequest) contentPath() string { return "template.text" }
func (r sendBulkRequest) hasContent() bool {
	return r.Template.Text != "" || r.Template.HTML != ""
}

type bulkResponse struct {
	Envelope
	Results []mailer.DispatchResult `json:"results"`
	Sent    int                     `json:"sent"`
	Failed  int                     `json:"failed"`
}

func (a *API) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Email Sender API",
		"version": Version,
		"endpoints": map[string]string{
			"GET /health":              "Health check",
			"GET /health/ready":        "Readiness check",
			"GET /api/test-connection": "Check the email provider",
			"GET /api/templates":       "List available templates",
			"POST /api/contact-form":   "Send a templated contact-form email",
			"POST /api/send-email":     "Send an email",
			"POST /api/send-bulk":      "Send a personalized email to many recipients",
		},
	})
}

func (a *API) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "Route not found",
		"path":  r.URL.RequestURI(),
	})
}

func (a *API) testConnection(w http.ResponseWriter, r *http.Request) {
	ok, err := a.svc.TestConnection(r.Context())
	if err != nil {
		a.logger.ErrorContext(r.Context(), "provider connection test failed", slog.Any("error", err))
		a.fail(w, http.StatusInternalServerError, "Email provider connection failed", err, "Connection error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Envelope
		Connected bool `json:"connected"`
	}{
		Envelope:  Envelope{Success: true, Message: "Email provider connection is working"},
		Connected: ok,
	})
}

func (a *API) listTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Envelope
		Templates []string `json:"templates"`
	}{
		Envelope:  Envelope{Success: true, Message: "Available templates retrieved successfully"},
		Templates: a.svc.AvailableTemplates(),
	})
}

func (a *API) contactForm(w http.ResponseWriter, r *http.Request) {
	var req service.TemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeBindError(w, err)
		return
	}

	if strings.TrimSpace(req.TemplateName) == "" || len(req.To) == 0 {
		writeJSON(w, http.StatusBadRequest, Envelope{Message: "templateName and to are required"})
		return
	}
	if !a.svc.HasTemplate(req.TemplateName) {
		writeJSON(w, http.StatusBadRequest, Envelope{Message: "Invalid template name."})
		return
	}
	if errs := a.validate(req); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	if req.Lang == "" {
		req.Lang = middlewares.GetLanguage(r.Context())
	}

	res, err := a.svc.SendTemplate(r.Context(), req)
	if err != nil {
		a.logger.ErrorContext(r.Context(), "template email sending failed",
			slog.String("template", req.TemplateName),
			slog.Any("error", err),
		)
		a.fail(w, a.statusFor(err), "Failed to send template email", err, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Envelope
		MessageID string `json:"messageId,omitempty"`
	}{
		Envelope:  Envelope{Success: true, Message: "Email sent successfully"},
		MessageID: res.MessageID,
	})
}

func (a *API) sendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	errs, err := a.bindJSON(r, &req)
	if err != nil {
		a.writeBindError(w, err)
		return
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	res, err := a.svc.SendEmail(r.Context(), &mailer.Email{
		From:        req.From,
		To:          req.To,
		CC:          req.CC,
		BCC:         req.BCC,
		ReplyTo:     req.ReplyTo,
		Subject:     req.Subject,
		Text:        req.Text,
		HTML:        req.HTML,
		Attachments: req.Attachments,
	})
	if err != nil {
		a.logger.ErrorContext(r.Context(), "email sending failed", slog.Any("error", err))
		a.fail(w, a.statusFor(err), "Failed to send email", err, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Envelope
		MessageID string `json:"messageId,omitempty"`
	}{
		Envelope:  Envelope{Success: true, Message: "Email sent successfully"},
		MessageID: res.MessageID,
	})
}

func (a *API) sendBulk(w http.ResponseWriter, r *http.Request) {
	var req sendBulkRequest
	errs, err := a.bindJSON(r, &req)
	if err != nil {
		a.writeBindError(w, err)
		return
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	// A client disconnect must not abandon the remaining recipients.
	ctx := context.WithoutCancel(r.Context())
	results := a.svc.SendBulkEmails(ctx, req.Emails, req.Template)

	resp := bulkResponse{
		Envelope: Envelope{Success: true, Message: "Bulk email dispatch completed"},
		Results:  results,
	}
	for _, res := range results {
		if res.Success {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) statusFor(err error) int {
	if service.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
