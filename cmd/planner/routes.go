package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	delattachment "matchplanner/http-server/attachment/delete"
	getattachment "matchplanner/http-server/attachment/get"
	"matchplanner/http-server/attachment/upload"
	delcomment "matchplanner/http-server/comment/delete"
	getcomment "matchplanner/http-server/comment/get"
	savecomment "matchplanner/http-server/comment/save"
	delevent "matchplanner/http-server/event/delete"
	getevent "matchplanner/http-server/event/get"
	saveevent "matchplanner/http-server/event/save"
	upevent "matchplanner/http-server/event/update"
	"matchplanner/http-server/task/complete"
	deltask "matchplanner/http-server/task/delete"
	savetask "matchplanner/http-server/task/save"
	uptask "matchplanner/http-server/task/update"
	delteam "matchplanner/http-server/team/delete"
	getteam "matchplanner/http-server/team/get"
	saveteam "matchplanner/http-server/team/save"
	upteam "matchplanner/http-server/team/update"
	deltemplate "matchplanner/http-server/template/delete"
	gettemplate "matchplanner/http-server/template/get"
	savetemplate "matchplanner/http-server/template/save"
	synctemplate "matchplanner/http-server/template/sync"
	uptemplate "matchplanner/http-server/template/update"
	deluser "matchplanner/http-server/user/delete"
	getuser "matchplanner/http-server/user/get"
	saveuser "matchplanner/http-server/user/save"
	upuser "matchplanner/http-server/user/update"
	"matchplanner/internal/config"
	"matchplanner/internal/drive"
	"matchplanner/internal/identity"
	"matchplanner/internal/middleware/auth"
	"matchplanner/internal/service/planner"
	"matchplanner/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, service *planner.Service, verifier *identity.Client, driveClient *drive.Client) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	now := time.Now

	api := chi.NewRouter()
	api.Use(auth.Bearer(verifier))

	api.Get("/teams", getteam.GetTeams(log, storage))
	api.Get("/teams/{id}", getteam.GetTeam(log, storage))
	api.Post("/teams", saveteam.SaveTeam(log, storage))
	api.Put("/teams/{id}", upteam.UpdateTeam(log, storage))
	api.With(auth.RequireAdmin).Delete("/teams/{id}", delteam.DeleteTeam(log, storage))

	api.Get("/users", getuser.GetUsers(log, storage))
	api.Get("/users/{id}", getuser.GetUser(log, storage))
	api.With(auth.RequireAdmin).Post("/users", saveuser.SaveUser(log, storage))
	api.With(auth.RequireAdmin).Put("/users/{id}", upuser.UpdateUser(log, storage))
	api.With(auth.RequireAdmin).Delete("/users/{id}", deluser.DeleteUser(log, storage))

	api.Get("/templates", gettemplate.GetTemplates(log, storage))
	api.Get("/templates/{id}", gettemplate.GetTemplateDetails(log, storage))
	api.Post("/templates", savetemplate.SaveTemplate(log, storage))
	api.Put("/templates/{id}", uptemplate.UpdateTemplate(log, storage))
	api.With(auth.RequireAdmin).Delete("/templates/{id}", deltemplate.DeleteTemplate(log, storage))
	api.Post("/templates/{id}/posts", savetemplate.SaveTemplatePost(log, storage))
	api.Post("/templates/{id}/events", saveevent.SaveEventFromTemplate(log, service))
	api.Post("/templates/{id}/sync", synctemplate.SyncTemplate(log, service, now))

	api.Put("/template-posts/{id}", uptemplate.UpdateTemplatePost(log, storage))
	api.Delete("/template-posts/{id}", deltemplate.DeleteTemplatePost(log, storage))
	api.Post("/template-posts/{id}/tasks", savetemplate.SaveTemplateTask(log, storage))

	api.Put("/template-tasks/{id}", uptemplate.UpdateTemplateTask(log, storage))
	api.Delete("/template-tasks/{id}", deltemplate.DeleteTemplateTask(log, storage))

	api.Get("/events", getevent.GetEvents(log, storage, now))
	api.Get("/events/{id}", getevent.GetEventDetails(log, storage, now))
	api.Post("/events", saveevent.SaveEvent(log, storage))
	api.Put("/events/{id}", upevent.UpdateEvent(log, storage))
	api.Delete("/events/{id}", delevent.DeleteEvent(log, storage))
	api.Post("/events/{id}/posts", saveevent.SaveEventPost(log, storage))

	api.Put("/event-posts/{id}", upevent.UpdateEventPost(log, storage))
	api.Delete("/event-posts/{id}", delevent.DeleteEventPost(log, storage))
	api.Post("/event-posts/{id}/tasks", savetask.SaveTask(log, storage))

	api.Put("/tasks/{id}", uptask.UpdateTask(log, storage))
	api.Delete("/tasks/{id}", deltask.DeleteTask(log, storage))
	api.Post("/tasks/{id}/complete", complete.CompleteTask(log, service, now))
	api.Post("/tasks/{id}/reopen", complete.ReopenTask(log, service))
	api.Post("/tasks/complete", complete.CompleteTasks(log, service, now))

	api.Get("/tasks/{id}/comments", getcomment.GetTaskComments(log, storage))
	api.Post("/tasks/{id}/comments", savecomment.SaveComment(log, storage))
	api.Delete("/comments/{id}", delcomment.DeleteComment(log, storage))

	api.Get("/tasks/{id}/attachments", getattachment.GetTaskAttachments(log, storage))
	api.Get("/comments/{id}/attachments", getattachment.GetCommentAttachments(log, storage))
	if driveClient != nil {
		api.Post("/attachments", upload.UploadAttachment(log, storage, driveClient))
		api.Delete("/attachments/{id}", delattachment.DeleteAttachment(log, storage, driveClient))
	}

	router.Mount("/api", api)

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/users", getuser.GetUsers(log, storage))
	adminRouter.Post("/users", saveuser.SaveUser(log, storage))
	adminRouter.Put("/users/{id}", upuser.UpdateUser(log, storage))
	adminRouter.Delete("/users/{id}", deluser.DeleteUser(log, storage))
	adminRouter.Get("/teams", getteam.GetTeams(log, storage))
	adminRouter.Post("/teams", saveteam.SaveTeam(log, storage))
	adminRouter.Delete("/teams/{id}", delteam.DeleteTeam(log, storage))

	router.Mount("/api/admin", adminRouter)

	// Static SPA. The frontend build is optional for API-only deployments.
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("frontend build not found; serving API only", slog.String("path", frontendDir))
		return router
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: unknown paths resolve to index.html.
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
