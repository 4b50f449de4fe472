package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	app := r.NewRoute().Subrouter()
	app.Use(s.session)

	app.HandleFunc("/", s.index).Methods(http.MethodGet)
	app.HandleFunc("/login", s.login).Methods(http.MethodPost)
	app.HandleFunc("/logout", s.logout).Methods(http.MethodGet)
	app.HandleFunc("/register", s.register).Methods(http.MethodPost)
	app.HandleFunc("/update_profile", s.updateProfile).Methods(http.MethodPost)

	app.HandleFunc("/admin/select_user", s.selectUser).Methods(http.MethodPost)
	app.HandleFunc("/admin/clear_target", s.clearTarget).Methods(http.MethodPost)
	app.HandleFunc("/admin/add_user", s.addUser).Methods(http.MethodPost)
	app.HandleFunc("/api/add_user", s.addUser).Methods(http.MethodPost)
	app.HandleFunc("/admin/toggle_block", s.toggleBlock).Methods(http.MethodPost)
	app.HandleFunc("/admin/delete_user", s.deleteUser).Methods(http.MethodPost)
	app.HandleFunc("/admin/add_subject", s.addSubject).Methods(http.MethodPost)

	app.HandleFunc("/api/add_absence", s.addAbsence).Methods(http.MethodPost)
	app.HandleFunc("/api/update_avatar", s.updateAvatar).Methods(http.MethodPost)

	app.HandleFunc("/send_invite", s.sendInvite).Methods(http.MethodPost)
	app.HandleFunc("/respond_invite", s.respondInvite).Methods(http.MethodPost)
	app.HandleFunc("/delete_invite", s.deleteInvite).Methods(http.MethodPost)
	app.HandleFunc("/flag_invite", s.flagInvite).Methods(http.MethodPost)

	app.HandleFunc("/api/token", s.issueToken).Methods(http.MethodPost)
	app.HandleFunc("/api/student/{id:[0-9]+}", s.requireAuth(s.studentCard)).Methods(http.MethodGet)
	app.HandleFunc("/api/sync_sheets", s.requireAuth(s.syncSheets)).Methods(http.MethodGet)
	app.HandleFunc("/api/resolve/{id:[0-9]+}", s.requireAuth(s.resolveAbsence)).Methods(http.MethodGet)
	app.HandleFunc("/api/absences", s.requireAuth(s.listAbsences)).Methods(http.MethodGet)
	app.HandleFunc("/api/avatar/presign", s.requireAuth(s.presignAvatar)).Methods(http.MethodPost)
	app.HandleFunc("/api/export/absences.xlsx", s.requireAuth(s.exportAbsences)).Methods(http.MethodGet)

	return r
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
