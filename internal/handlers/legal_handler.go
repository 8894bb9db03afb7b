package handlers

import (
	"html"

	"github.com/ecociudad/ecociudad-backend/internal/config"
	"github.com/gofiber/fiber/v2"
)

const legalStyle = `<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1b5e20}h2{color:#2e7d32;margin-top:30px}</style>`

// LegalHandler serves the static privacy and terms pages linked from the
// mobile and web clients.
type LegalHandler struct {
	appName string
	contact string
}

func NewLegalHandler(cfg *config.Config) *LegalHandler {
	return &LegalHandler{
		appName: html.EscapeString(cfg.AppName),
		contact: html.EscapeString(cfg.SupportEmail),
	}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html lang="es"><head><title>Política de privacidad - ` + h.appName + `</title>
` + legalStyle + `
</head><body>
<h1>Política de privacidad</h1>
<h2>Datos que recopilamos</h2>
<p>Tu correo electrónico y nombre para identificar tu cuenta. Cuando envías un reporte guardamos la ubicación y la dirección que indiques para que el municipio pueda atenderlo.</p>
<h2>Uso de los datos</h2>
<p>Los reportes se comparten con el personal municipal encargado de resolverlos. Tus puntos, actividades y canjes solo son visibles para ti y para los administradores de ` + h.appName + `.</p>
<h2>Conservación</h2>
<p>Los reportes forman parte del registro público de incidencias y no se eliminan. Puedes solicitar la baja de tu cuenta en cualquier momento.</p>
<h2>Contacto</h2>
<p>Escríbenos a ` + h.contact + `</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html lang="es"><head><title>Términos de uso - ` + h.appName + `</title>
` + legalStyle + `
</head><body>
<h1>Términos de uso</h1>
<h2>Aceptación</h2>
<p>Al usar ` + h.appName + ` aceptas estos términos.</p>
<h2>Reportes</h2>
<p>Los reportes deben describir situaciones reales. El municipio puede rechazar reportes falsos o duplicados.</p>
<h2>Puntos y recompensas</h2>
<p>Los puntos no tienen valor monetario ni son transferibles. Las recompensas están sujetas a disponibilidad y pueden retirarse del catálogo sin aviso.</p>
<h2>Suspensión</h2>
<p>Podemos suspender cuentas que hagan un uso indebido del servicio.</p>
<h2>Contacto</h2>
<p>Escríbenos a ` + h.contact + `</p>
</body></html>`)
}
