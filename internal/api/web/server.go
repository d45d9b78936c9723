// Package web отдаёт HTML-форму загрузки снимка и таблицу отчётов.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	app "pothole-tracker/internal/application"
	"pothole-tracker/internal/domain/entity"
)

const (
	maxUploadSize = 20 << 20

	msgNoImage      = "Please select an image first."
	msgInvalidImage = "Invalid image file."
	msgTooLarge     = "Image is too large. The limit is 20 MB."
	msgInvalidForm  = "Invalid severity. Choose Low, Medium or High."
	msgFailed       = "Could not process the image. Please try again."
)

//go:embed templates/index.html
var templates embed.FS

// Server HTTP-интерфейс сервиса отчётов
type Server struct {
	reports   *app.ReportService
	staticDir string
	tmpl      *template.Template
	router    *mux.Router
}

type pageData struct {
	Location   string
	Severity   entity.Severity
	Severities []entity.Severity
	Error      string
	Result     *entity.ReportRecord
	Reports    []entity.ReportRecord
}

// NewServer собирает маршруты; staticDir каталог размеченных снимков
func NewServer(reports *app.ReportService, staticDir string) (*Server, error) {
	tmpl, err := template.New("index.html").
		Funcs(template.FuncMap{"imageURL": imageURL}).
		ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		reports:   reports,
		staticDir: staticDir,
		tmpl:      tmpl,
		router:    mux.NewRouter(),
	}
	s.routes()
	return s, nil
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(logRequests)
	s.router.HandleFunc("/", s.index).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.upload).Methods(http.MethodPost)
	s.router.HandleFunc("/static/{name}", s.static).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pageData{Severity: entity.SeverityMedium})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var data pageData
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			data.Error = msgTooLarge
			s.render(w, r, http.StatusRequestEntityTooLarge, data)
			return
		}
		data.Error = msgNoImage
		s.render(w, r, http.StatusBadRequest, data)
		return
	}

	data.Location = strings.TrimSpace(r.FormValue("location"))
	data.Severity = entity.Severity(r.FormValue("severity"))

	// Поле без имени файла считается невыбранным снимком, пустой файл уходит в проверку
	file, _, err := r.FormFile("image")
	if err != nil {
		data.Error = msgNoImage
		s.render(w, r, http.StatusBadRequest, data)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		data.Error = msgNoImage
		s.render(w, r, http.StatusBadRequest, data)
		return
	}

	outcome, err := s.reports.Submit(r.Context(), app.ReportRequest{
		Image:    image,
		Location: data.Location,
		Severity: string(data.Severity),
	})
	switch {
	case errors.Is(err, entity.ErrInvalidImage):
		data.Error = msgInvalidImage
		s.render(w, r, http.StatusBadRequest, data)
		return
	case errors.Is(err, app.ErrInvalidRequest):
		data.Error = msgInvalidForm
		s.render(w, r, http.StatusBadRequest, data)
		return
	case err != nil:
		log.Printf("Error processing report: %v", err)
		data.Error = msgFailed
		s.render(w, r, http.StatusInternalServerError, data)
		return
	}

	data.Result = &outcome.Record
	data.Severity = outcome.Record.Severity
	s.render(w, r, http.StatusOK, data)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.Severities = entity.Severities
	if data.Severity == "" {
		data.Severity = entity.SeverityMedium
	}

	reports, err := s.reports.History(r.Context(), 0)
	if err != nil {
		log.Printf("Error reading reports: %v", err)
	}
	data.Reports = reports

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("Error rendering page: %v", err)
	}
}

// static отдаёт снимок из каталога результатов; вложенные пути не принимаются
func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, filepath.Join(s.staticDir, name))
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// imageURL переводит путь из журнала в адрес на этом сервере.
// Снимки в S3 не проксируются.
func imageURL(p string) string {
	if p == "" || strings.Contains(p, "://") {
		return ""
	}
	return "/static/" + path.Base(filepath.ToSlash(p))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
