package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labtrack/backend/config"
	"labtrack/backend/internal/api/handler"
	"labtrack/backend/internal/api/middleware"
	"labtrack/backend/internal/model"
	"labtrack/backend/pkg/jwt"
	"labtrack/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，附加速率限制防暴力破解）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块（仅教师可管理）
			users := authorized.Group("/users", middleware.RoleAuth(model.RoleTeacher))
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}

			// 实验室模块（查看对所有人开放，增删改仅教师）
			labs := authorized.Group("/labs")
			{
				labs.GET("", h.Lab.ListLabs)
				labs.GET("/:id", h.Lab.GetLab)
				labs.POST("", middleware.RoleAuth(model.RoleTeacher), h.Lab.CreateLab)
				labs.PUT("/:id", middleware.RoleAuth(model.RoleTeacher), h.Lab.UpdateLab)
				labs.DELETE("/:id", middleware.RoleAuth(model.RoleTeacher), h.Lab.DeleteLab)
			}

			// 实验时段模块
			sessions := authorized.Group("/sessions")
			{
				sessions.GET("", h.LabSession.ListSessions)
				sessions.GET("/:id", h.LabSession.GetSession)
				sessions.POST("", middleware.RoleAuth(model.RoleTeacher), h.LabSession.CreateSession)
				sessions.PUT("/:id", middleware.RoleAuth(model.RoleTeacher), h.LabSession.UpdateSession)
				sessions.DELETE("/:id", middleware.RoleAuth(model.RoleTeacher), h.LabSession.DeleteSession)
				sessions.GET("/:id/attendance", middleware.RoleAuth(model.RoleTeacher), h.Attendance.ListSessionAttendance)
			}

			// 签到台账模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("", h.Attendance.MarkAttendance)
				attendance.GET("/mine", h.Attendance.ListMyAttendance)
				attendance.DELETE("/:id", h.Attendance.DeleteMyAttendance)
				attendance.GET("/pending", middleware.RoleAuth(model.RoleTeacher), h.Attendance.ListPendingAttendance)
				attendance.POST("/:id/approve", middleware.RoleAuth(model.RoleTeacher), h.Attendance.ApproveAttendance)
				attendance.POST("/:id/reject", middleware.RoleAuth(model.RoleTeacher), h.Attendance.RejectAttendance)
				attendance.GET("/stats", middleware.RoleAuth(model.RoleTeacher), h.Attendance.AttendanceStats)
			}

			// 可用性查询
			authorized.GET("/availability", h.Availability.DayAvailability)
			authorized.GET("/availability/today", h.Availability.TodayAvailability)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/attendance", middleware.RoleAuth(model.RoleTeacher), h.Export.ExportAttendance)
				export.GET("/sessions.ics", h.Export.ExportSessionPlan)
			}
		}
	}

	return r
}
