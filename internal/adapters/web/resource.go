package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"sitesafety/internal/adapters/web/flash"
	safetyapp "sitesafety/internal/application/safety"
	"sitesafety/internal/domain/safety"

	"github.com/gin-gonic/gin"
)

// resource wires list, detail and form screens of one REST collection
type resource[T any, I safetyapp.Input] struct {
	h          *Handler
	title      string // plural heading, e.g. "Hazards"
	singular   string // used in messages, e.g. "Hazard"
	base       string // screen root, e.g. "/admin/hazards"
	collection func(*safetyapp.Service) *safetyapp.Collection[T, I]
	newInput   func() I

	columns []string
	cells   func(T) []string
	id      func(T) string

	// optional screens and hooks
	list     func(c *gin.Context, svc *safetyapp.Service) ([]T, error)
	detail   func(T) []item
	fields   func(ctx context.Context, svc *safetyapp.Service) ([]formField, error)
	values   func(T) url.Values
	defaults func(c *gin.Context) url.Values
	readOnly bool
	// backend statuses on the list call that end the session besides 401
	listLogout []int
}

// register mounts the screens on g; base must sit below g's base path
func (r *resource[T, I]) register(g *gin.RouterGroup) {
	rel := strings.TrimPrefix(r.base, g.BasePath())
	g.GET(rel, r.index)
	g.POST(rel+"/:id/delete", r.remove)
	if r.detail != nil {
		g.GET(rel+"/:id", r.view)
	}
	if r.readOnly {
		return
	}
	g.GET(rel+"/create", r.createForm)
	g.POST(rel+"/create", r.create)
	g.GET(rel+"/:id/edit", r.editForm)
	g.POST(rel+"/:id/edit", r.update)
}

func (r *resource[T, I]) index(c *gin.Context) {
	svc := r.h.service(c)
	var (
		items []T
		err   error
	)
	if r.list != nil {
		items, err = r.list(c, svc)
	} else {
		items, err = r.collection(svc).List(c.Request.Context())
	}
	if err != nil {
		if r.h.endSession(c, err, r.listLogout...) {
			return
		}
		r.h.fail(c, err, "Failed to load "+r.title+".")
		return
	}
	r.h.render(c, http.StatusOK, "list.html", gin.H{"Title": r.title, "Table": r.table(items)})
}

func (r *resource[T, I]) table(items []T) table {
	t := table{Title: r.title, Columns: r.columns, Empty: "No " + r.title + " found."}
	if !r.readOnly {
		t.CreatePath = r.base + "/create"
	}
	for _, it := range items {
		id := url.PathEscape(r.id(it))
		rw := row{Cells: r.cells(it), DeletePath: r.base + "/" + id + "/delete"}
		if r.detail != nil {
			rw.ViewPath = r.base + "/" + id
		}
		if !r.readOnly {
			rw.EditPath = r.base + "/" + id + "/edit"
		}
		t.Rows = append(t.Rows, rw)
	}
	return t
}

func (r *resource[T, I]) view(c *gin.Context) {
	item, err := r.collection(r.h.service(c)).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.h.fail(c, err, r.singular+" not found.")
		return
	}
	d := detail{Title: r.singular + " Details", Items: r.detail(*item), BackPath: r.base}
	if !r.readOnly {
		d.EditPath = r.base + "/" + url.PathEscape(c.Param("id")) + "/edit"
	}
	r.h.render(c, http.StatusOK, "detail.html", gin.H{"Title": d.Title, "Detail": d})
}

func (r *resource[T, I]) createForm(c *gin.Context) {
	values := url.Values{}
	if r.defaults != nil {
		values = r.defaults(c)
	}
	r.showForm(c, http.StatusOK, "Add "+r.singular, r.base+"/create", values, nil, "")
}

func (r *resource[T, I]) editForm(c *gin.Context) {
	item, err := r.collection(r.h.service(c)).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.h.fail(c, err, r.singular+" not found.")
		return
	}
	r.showForm(c, http.StatusOK, "Edit "+r.singular, r.editAction(c), r.values(*item), nil, "")
}

func (r *resource[T, I]) create(c *gin.Context) {
	r.submit(c, "Add "+r.singular, r.base+"/create", func(svc *safetyapp.Service, in I) error {
		return r.collection(svc).Create(c.Request.Context(), in)
	}, r.singular+" created successfully.")
}

func (r *resource[T, I]) update(c *gin.Context) {
	id := c.Param("id")
	r.submit(c, "Edit "+r.singular, r.editAction(c), func(svc *safetyapp.Service, in I) error {
		return r.collection(svc).Update(c.Request.Context(), id, in)
	}, r.singular+" updated successfully.")
}

func (r *resource[T, I]) submit(c *gin.Context, title, action string, save func(*safetyapp.Service, I) error, done string) {
	in := r.newInput()
	if err := c.ShouldBind(in); err != nil {
		r.showForm(c, http.StatusBadRequest, title, action, c.Request.PostForm, nil, "The form could not be read.")
		return
	}

	err := save(r.h.service(c), in)
	var verr *safety.ValidationError
	switch {
	case err == nil:
		flash.Add(c, flash.Success(done))
		c.Redirect(http.StatusSeeOther, r.base)
	case errors.As(err, &verr):
		r.showForm(c, http.StatusUnprocessableEntity, title, action, c.Request.PostForm, verr.ByField(), "Please fill in all required fields.")
	case r.h.expired(c, err):
	default:
		r.showForm(c, http.StatusBadGateway, title, action, c.Request.PostForm, nil, requestMessage(err, "Failed to save "+r.singular+"."))
	}
}

func (r *resource[T, I]) remove(c *gin.Context) {
	err := r.collection(r.h.service(c)).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if r.h.expired(c, err) {
			return
		}
		flash.Add(c, flash.Error("Error", requestMessage(err, "Failed to delete "+r.singular+".")))
	} else {
		flash.Add(c, flash.Success(r.singular+" has been deleted."))
	}
	c.Redirect(http.StatusSeeOther, r.base)
}

func (r *resource[T, I]) showForm(c *gin.Context, status int, title, action string, values url.Values, errs map[string]string, message string) {
	fields, err := r.fields(c.Request.Context(), r.h.service(c))
	if err != nil {
		r.h.fail(c, err, "Failed to load form options.")
		return
	}
	f := form{
		Title:      title,
		Action:     action,
		CancelPath: r.base,
		Submit:     "Save",
		Fields:     fill(fields, values, errs),
		Error:      message,
	}
	r.h.render(c, status, "form.html", gin.H{"Title": title, "Form": f})
}

func (r *resource[T, I]) editAction(c *gin.Context) string {
	return r.base + "/" + url.PathEscape(c.Param("id")) + "/edit"
}
