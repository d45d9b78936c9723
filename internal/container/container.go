package container

import (
	app "pothole-tracker/internal/application"
	"pothole-tracker/internal/domain/port"
)

type Container struct {
	UserService   *app.UserService
	ReportService *app.ReportService
}

// Deps адаптеры, из которых собираются сервисы
type Deps struct {
	Users    port.UserRepository
	Detector port.PotholeDetector
	Codec    port.ImageCodec
	Images   port.ImageStore
	Ledger   port.ReportLedger
}

func New(deps Deps) *Container {
	userService := app.NewUserService(deps.Users)
	reportService := app.NewReportService(deps.Detector, deps.Codec, deps.Images, deps.Ledger)

	return &Container{
		UserService:   userService,
		ReportService: reportService,
	}
}
