package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

func (s *HTTPServer) addAbsence(w http.ResponseWriter, r *http.Request) {
	studentID, err := formInt64(r, "student_id")
	var subjectID int64
	if err == nil {
		subjectID, err = formInt64(r, "subject_id")
	}
	if err == nil {
		_, err = s.services.Absences.Create(r.Context(), SessionFrom(r.Context()), studentID, subjectID, formValue(r, "deadline"))
	}
	s.redirect(w, r, "/?tab=timers", err, "Відпрацювання додано")
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *HTTPServer) resolveAbsence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = s.services.Absences.Resolve(r.Context(), SessionFrom(r.Context()), id)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// absenceJSON adds whole seconds for clients that count down themselves.
type absenceJSON struct {
	*models.AbsenceView
	RemainingSeconds int64 `json:"remaining_seconds"`
}

func (s *HTTPServer) listAbsences(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Absences.ListFor(r.Context(), SessionFrom(r.Context()), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]absenceJSON, 0, len(list))
	for _, v := range list {
		out = append(out, absenceJSON{AbsenceView: v, RemainingSeconds: int64(v.Remaining.Seconds())})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) syncSheets(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Import.Sync(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *HTTPServer) exportAbsences(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	var buf bytes.Buffer
	if err := s.services.Export.AbsencesXLSX(r.Context(), SessionFrom(r.Context()), now, &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="absences_%s.xlsx"`, now.Format("2006-01-02")))
	_, _ = buf.WriteTo(w)
}
