package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

// Subjects of the templated auth emails.
const (
	SubjectConfirmation  = "Confirme ton inscription"
	SubjectPasswordReset = "Réinitialisation de votre mot de passe"
)

const confirmationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background-color: white; padding: 32px; border-radius: 12px; border: 2px solid #DDDDDD;">
    <h1 style="font-size: 32px; font-weight: 800; text-align: center; margin-bottom: 32px; color: #333;">{{ "gestio" | upper }}</h1>

    <h2 style="font-size: 24px; font-weight: bold; text-align: center; margin-bottom: 24px; color: #333;">Bienvenue, {{ .Username }} !</h2>

    <p style="color: #4B5563; margin-bottom: 24px; font-weight: 600;">Pour activer votre compte, veuillez cliquer sur le bouton ci-dessous :</p>

    <div style="text-align: center;">
        <a href="{{ .ConfirmationLink }}"
            style="display: inline-block; background-color: #2D5D8C; color: white; padding: 8px 32px; border-radius: 9999px; text-decoration: none; font-weight: bold; font-size: 18px;">
            CONFIRMER MON COMPTE
        </a>
    </div>

    <p style="color: #6B7280; margin-top: 24px; font-size: 14px; text-align: center;">Ce lien est valable pendant 24 heures.</p>
</div>
`

const passwordResetTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background-color: white; padding: 32px; border-radius: 12px; border: 2px solid #DDDDDD;">
    <h1 style="font-size: 32px; font-weight: 800; text-align: center; margin-bottom: 32px; color: #333;">{{ "gestio" | upper }}</h1>

    <h2 style="font-size: 24px; font-weight: bold; text-align: center; margin-bottom: 24px; color: #333;">Réinitialisation de votre mot de passe</h2>

    <p style="color: #4B5563; margin-bottom: 24px; font-weight: 600;">Vous avez demandé la réinitialisation de votre mot de passe. Cliquez sur le bouton ci-dessous pour définir un nouveau mot de passe :</p>

    <div style="text-align: center;">
        <a href="{{ .ResetLink }}"
            style="display: inline-block; background-color: #2D5D8C; color: white; padding: 8px 32px; border-radius: 9999px; text-decoration: none; font-weight: bold; font-size: 18px;">
            RÉINITIALISER MON MOT DE PASSE
        </a>
    </div>

    <p style="color: #6B7280; margin-top: 24px; font-size: 14px; text-align: center;">Ce lien est valable pendant 1 heure.</p>

    <p style="color: #6B7280; margin-top: 16px; font-size: 14px; text-align: center;">Si vous n'avez pas demandé la réinitialisation de votre mot de passe, vous pouvez ignorer cet email.</p>
</div>
`

var templates = template.Must(
	template.New("confirmation").Funcs(sprig.HtmlFuncMap()).Parse(confirmationTemplate),
)

func init() {
	template.Must(templates.New("passwordReset").Parse(passwordResetTemplate))
}

// RenderConfirmation renders the registration confirmation email body.
func RenderConfirmation(username, confirmationLink string) (string, error) {
	return render("confirmation", map[string]any{
		"Username":         username,
		"ConfirmationLink": confirmationLink,
	})
}

// RenderPasswordReset renders the password reset email body.
func RenderPasswordReset(resetLink string) (string, error) {
	return render("passwordReset", map[string]any{
		"ResetLink": resetLink,
	})
}

func render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", name, err)
	}
	return buf.String(), nil
}
