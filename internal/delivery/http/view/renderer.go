package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"physiocare/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

// View names
const (
	Login          = "login"
	Error          = "error"
	Menu           = "menu"
	PatientsList   = "patients_list"
	PatientsDetail = "patients_detail"
	PatientAdd     = "patient_add"
	PatientEdit    = "patient_edit"
	PhysiosList    = "physios_list"
	PhysiosDetail  = "physios_detail"
	PhysioAdd      = "physio_add"
	PhysioEdit     = "physio_edit"
	RecordsList    = "records_list"
	RecordsDetail  = "records_detail"
	RecordAdd      = "record_add"
	AppointmentAdd = "appointment_add"
	AuditLogsList  = "audit_logs_list"
)

var allViews = []string{
	Login, Error, Menu,
	PatientsList, PatientsDetail, PatientAdd, PatientEdit,
	PhysiosList, PhysiosDetail, PhysioAdd, PhysioEdit,
	RecordsList, RecordsDetail, RecordAdd, AppointmentAdd,
	AuditLogsList,
}

// Renderer turns a named view and its data into a response.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, view string, data interface{})
}

// IdentityFunc returns the identity of the request, or nil when anonymous.
type IdentityFunc func(r *http.Request) *entity.Identity

// Page is what every template receives.
type Page struct {
	Identity *entity.Identity
	Status   int
	Data     interface{}
}

type TemplateRenderer struct {
	templates map[string]*template.Template
	identity  IdentityFunc
	log       *logrus.Logger
}

func NewTemplateRenderer(log *logrus.Logger, identity IdentityFunc) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"imageURL": imageURL,
		"hasRole": func(identity *entity.Identity, roles ...string) bool {
			if identity == nil {
				return false
			}
			for _, role := range roles {
				if identity.Role == entity.Role(role) {
					return true
				}
			}
			return false
		},
	}

	templates := make(map[string]*template.Template, len(allViews))
	for _, name := range allViews {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &TemplateRenderer{
		templates: templates,
		identity:  identity,
		log:       log,
	}, nil
}

func (t *TemplateRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, data interface{}) {
	tmpl, ok := t.templates[view]
	if !ok {
		t.log.Errorf("Unknown view %q", view)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := Page{Status: status, Data: data}
	if t.identity != nil {
		page.Identity = t.identity(r)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		t.log.Errorf("Failed to render view %s: %+v", view, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// imageURL resolves a stored image reference. S3 references are already absolute.
func imageURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "/uploads/" + ref
}
