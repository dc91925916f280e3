package dirauth

import (
	"fmt"
	"html"
	"time"
)

// Outbound message bodies. Plain string assembly keeps the engine free of
// template-engine state; every interpolated value is HTML-escaped.

func resetCodeEmail(fullName, code string, ttl time.Duration) (subject, body string) {
	subject = "Código de restablecimiento de contraseña"
	body = fmt.Sprintf(
		"<html><body>"+
			"<p>Hola %s,</p>"+
			"<p>Tu código para restablecer la contraseña es:</p>"+
			"<p style=\"font-size:24px;letter-spacing:4px\"><b>%s</b></p>"+
			"<p>El código expira en %s. Si no solicitaste este cambio, ignora este mensaje.</p>"+
			"</body></html>",
		html.EscapeString(fullName), html.EscapeString(code), ttlText(ttl),
	)
	return subject, body
}

func resetLinkEmail(fullName, link string, ttl time.Duration) (subject, body string) {
	subject = "Restablecimiento de contraseña"
	body = fmt.Sprintf(
		"<html><body>"+
			"<p>Hola %s,</p>"+
			"<p>Para restablecer tu contraseña abre el siguiente enlace:</p>"+
			"<p><a href=\"%s\">Restablecer contraseña</a></p>"+
			"<p>El enlace expira en %s. Si no solicitaste este cambio, ignora este mensaje.</p>"+
			"</body></html>",
		html.EscapeString(fullName), html.EscapeString(link), ttlText(ttl),
	)
	return subject, body
}

func emailChangeEmail(fullName, code string, ttl time.Duration) (subject, body string) {
	subject = "Código de actualización de correo"
	body = fmt.Sprintf(
		"<html><body>"+
			"<p>Hola %s,</p>"+
			"<p>Tu código para confirmar el nuevo correo es:</p>"+
			"<p style=\"font-size:24px;letter-spacing:4px\"><b>%s</b></p>"+
			"<p>El código expira en %s. Si no solicitaste este cambio, ignora este mensaje.</p>"+
			"</body></html>",
		html.EscapeString(fullName), html.EscapeString(code), ttlText(ttl),
	)
	return subject, body
}

func preregisterEmail(link string) (subject, body string) {
	subject = "Confirma tu registro"
	body = fmt.Sprintf(
		"<html><body>"+
			"<p>Gracias por registrarte.</p>"+
			"<p>Para completar tu registro abre el siguiente enlace:</p>"+
			"<p><a href=\"%s\">Completar registro</a></p>"+
			"</body></html>",
		html.EscapeString(link),
	)
	return subject, body
}

func ttlText(ttl time.Duration) string {
	if ttl >= time.Hour && ttl%time.Hour == 0 {
		h := int(ttl / time.Hour)
		if h == 1 {
			return "1 hora"
		}
		return fmt.Sprintf("%d horas", h)
	}
	m := int(ttl / time.Minute)
	if m <= 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", m)
}
