package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ukd-dev/ukdportal/internal/common"
)

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

func formInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(formValue(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", common.ErrorValidation, name)
	}
	return v, nil
}

// formOptionalInt64 returns nil for an empty field.
func formOptionalInt64(r *http.Request, name string) (*int64, error) {
	if formValue(r, name) == "" {
		return nil, nil
	}
	v, err := formInt64(r, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func pathID(r *http.Request) (int64, error) {
	v, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id", common.ErrorValidation)
	}
	return v, nil
}
