package controller

import (
	"negotiation-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, log *logrus.Entry, metricsPath string) {
	handler.Use(requestLogger(log.WithField("component", "http")))
	handler.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))

	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newInquiryRoutesHandler(api, services, validate)
}
