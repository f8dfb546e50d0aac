package router

import (
	"freshCartChurn/internal/middleware"
	"freshCartChurn/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupChurnRoutes(api *echo.Group, handler *rest.ChurnHandler, jwtSecret string) {
	churn := api.Group("/churn")

	churn.GET("/features/:user_id", handler.GetUserFeatures)
	churn.POST("/predict", handler.Predict)
	churn.GET("/summary", handler.Summary)

	churn.GET("/predictions", handler.ListPredictions,
		middleware.AuthMiddleware(jwtSecret), middleware.OperatorOnly())
}
