package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/refresh", handler.Refresh)
	auth.Get("/profile", handler.AuthRequired, handler.GetProfile)
	auth.Patch("/profile", handler.AuthRequired, handler.UpdateProfile)
	auth.Post("/password", handler.AuthRequired, handler.ChangePassword)
	auth.Delete("/account", handler.AuthRequired, handler.DeleteAccount)

	activities := api.Group("/activities", handler.AuthRequired)
	activities.Post("", handler.RecordActivity)
	activities.Get("", handler.ListActivities)

	junkLimits := api.Group("/junk-limits", handler.AuthRequired)
	junkLimits.Get("", handler.GetJunkLimits)
	junkLimits.Put("/:type", handler.UpdateJunkLimit)

	workout := api.Group("/workout", handler.AuthRequired)
	workout.Get("/plan", handler.GetWorkoutPlan)
	workout.Put("/plan", handler.SaveWorkoutPlan)
	workout.Get("/completions/:date", handler.GetWorkoutCompletion)
	workout.Put("/completions/:date", handler.RecordWorkoutCompletion)

	api.Get("/dashboard", handler.AuthRequired, handler.GetDashboard)
	api.Get("/points", handler.AuthRequired, handler.GetPoints)
	api.Get("/leaderboard", handler.AuthRequired, handler.GetLeaderboard)
	api.Get("/streak-calendar", handler.AuthRequired, handler.GetStreakCalendar)
}
