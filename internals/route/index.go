// file: internals/route/index.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionRoute "examku_backend/internals/features/exams/exam_sessions/route"
	takerRoute "examku_backend/internals/features/exams/exam_takers/route"
	termRoute "examku_backend/internals/features/exams/exam_terms/route"
	invigilatorRoute "examku_backend/internals/features/exams/invigilators/route"
	roomRoute "examku_backend/internals/features/exams/session_rooms/route"
	groupRoute "examku_backend/internals/features/exams/stable_groups/route"

	"examku_backend/internals/configs"
	authMiddleware "examku_backend/internals/middlewares/auth"
	featureMiddleware "examku_backend/internals/middlewares/features"
)

// SetupRoutes mendaftarkan seluruh endpoint:
//   /api/a → admin (JWT + role admin), semua mutasi alokasi
//   /api/u → user login (kartu ujian, jadwal peserta)
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.GetEnv("JWT_SECRET"),
		AllowCookieFallback: true,
	})

	api := app.Group("/api")

	admin := api.Group("/a", jwt, featureMiddleware.IsExamAdmin())
	termRoute.ExamTermAdminRoutes(admin, db)
	sessionRoute.ExamSessionAdminRoutes(admin, db)
	takerRoute.ExamTakerAdminRoutes(admin, db)
	groupRoute.StableGroupAdminRoutes(admin, db)
	roomRoute.SessionRoomAdminRoutes(admin, db)
	invigilatorRoute.InvigilatorAdminRoutes(admin, db)

	user := api.Group("/u", jwt)
	takerRoute.ExamTakerUserRoutes(user, db)
}
