package httpx

import (
	"context"
	"net/http"

	"github.com/target/storefront-admin/internal/service"
)

const settingsPath = "/settings"

func passwordForm() FormView {
	return FormView{
		Title:       "Change password",
		Action:      settingsPath + "/password",
		Mode:        FormModeEdit,
		SubmitLabel: "Update password",
		Fields: []FormField{
			{Name: "currentPassword", Label: "Current password", Type: "password", Required: true},
			{Name: "newPassword", Label: "New password", Type: "password", Required: true, Help: "At least 8 characters."},
			{Name: "confirmPassword", Label: "Confirm new password", Type: "password", Required: true},
		},
	}
}

func settingsMeta() PageMeta {
	return PageMeta{Title: "Settings", PageTitle: "Settings", CurrentPage: PageSettings}
}

// Settings renders the profile summary and the change-password form.
func (h *UIHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: settingsMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["PasswordForm"] = passwordForm()
			profile, err := h.AuthSvc.Profile(ctx)
			if err != nil {
				return err
			}
			data["Profile"] = profile
			return nil
		},
	})
}

// ChangePassword handles POST /settings/password.
func (h *UIHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	in := service.ChangePasswordInput{
		Current: r.PostForm.Get("currentPassword"),
		New:     r.PostForm.Get("newPassword"),
		Confirm: r.PostForm.Get("confirmPassword"),
	}
	err := h.AuthSvc.ChangePassword(r.Context(), in)
	if err == nil {
		mutationDone(w, r, "Password updated.", settingsPath)
		return
	}
	if h.handleSessionError(w, r, err) {
		return
	}
	h.logger().InfoContext(r.Context(), "password change rejected", "error", err)

	fieldErrors := map[string]string{}
	general := processError(err, fieldErrors)
	if general == "" {
		general = errMsgFixBelow
	}
	builder := NewTemplateData(r, settingsMeta()).WithFormErrors(fieldErrors, general)

	form := passwordForm()
	form.Fields = refillFields(form.Fields, r, fieldErrors)
	builder.With("PasswordForm", form)
	if profile, perr := h.AuthSvc.Profile(r.Context()); perr == nil {
		builder.With("Profile", profile)
	}

	if !IsHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	h.renderDashboardPage(w, r, builder.Build())
}
