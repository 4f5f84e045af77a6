package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ocmhub/pkg/domain"
)

func (h *Handler) mountDashboard(r chi.Router) {
	svc := h.svc
	r.Route("/home-modules", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": svc.Snapshot().HomeModules})
		})
		collection(h, r, params(), topAdd(svc.AddHomeModule), topUpdate(svc.UpdateHomeModule), topDelete(svc.DeleteHomeModule))
	})
	r.Route("/workbench/groups", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": svc.Snapshot().Workbench})
		})
		collection(h, r, params(), topAdd(svc.AddWorkbenchGroup), topUpdate(svc.UpdateWorkbenchGroup), topDelete(svc.DeleteWorkbenchGroup))
		r.Route("/{groupID}/items", func(r chi.Router) {
			collection(h, r, params("groupID"), childAdd(svc.AddWorkbenchItem), childUpdate(svc.UpdateWorkbenchItem), childDelete(svc.DeleteWorkbenchItem))
			r.Post("/{id}/move", h.moveWorkbenchItem)
		})
	})
}

type moveRequest struct {
	ToGroupID string `json:"toGroupId"`
}

func (h *Handler) moveWorkbenchItem(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.ToGroupID == "" {
		writeError(w, http.StatusBadRequest, "toGroupId is required")
		return
	}
	item, res, err := h.svc.MoveWorkbenchItem(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "id"), req.ToGroupID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, item, res)
}

func (h *Handler) mountProjects(r chi.Router) {
	svc := h.svc
	r.Get("/projects", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": sortedProjects(svc.Snapshot())})
	})
	r.Route("/projects/{projectID}", func(r chi.Router) {
		r.Get("/", h.getProject)
		r.Patch("/", h.patchProject)
		r.Patch("/budget", h.patchBudget)

		project := params("projectID")
		r.Route("/rag", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddRAGEntry), childUpdate(svc.UpdateRAGEntry), childDelete(svc.DeleteRAGEntry))
		})
		r.Route("/quick-links", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddQuickLink), childUpdate(svc.UpdateQuickLink), childDelete(svc.DeleteQuickLink))
		})
		r.Route("/announcements", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddAnnouncement), childUpdate(svc.UpdateAnnouncement), childDelete(svc.DeleteAnnouncement))
		})
		r.Route("/documents", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddDocument), childUpdate(svc.UpdateDocument), childDelete(svc.DeleteDocument))
		})
		r.Route("/risks", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddRisk), childUpdate(svc.UpdateRisk), childDelete(svc.DeleteRisk))
		})
		r.Route("/issues", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddIssue), childUpdate(svc.UpdateIssue), childDelete(svc.DeleteIssue))
		})
		r.Route("/actions", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddAction), childUpdate(svc.UpdateAction), childDelete(svc.DeleteAction))
		})
		r.Route("/dependencies", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddDependency), childUpdate(svc.UpdateDependency), childDelete(svc.DeleteDependency))
		})
		r.Route("/assumptions", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddAssumption), childUpdate(svc.UpdateAssumption), childDelete(svc.DeleteAssumption))
		})
		r.Route("/lessons", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddLesson), childUpdate(svc.UpdateLesson), childDelete(svc.DeleteLesson))
		})
		r.Route("/status-updates", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddStatusUpdate), childUpdate(svc.UpdateStatusUpdate), childDelete(svc.DeleteStatusUpdate))
		})
		r.Route("/budget-categories", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddBudgetCategory), childUpdate(svc.UpdateBudgetCategory), childDelete(svc.DeleteBudgetCategory))
		})
		r.Route("/resources", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddResource), childUpdate(svc.UpdateResource), childDelete(svc.DeleteResource))
		})
		r.Route("/asset-categories", func(r chi.Router) {
			collection(h, r, project, childAdd(svc.AddAssetCategory), childUpdate(svc.UpdateAssetCategory), childDelete(svc.DeleteAssetCategory))
			r.Route("/{categoryID}/links", func(r chi.Router) {
				collection(h, r, params("projectID", "categoryID"), grandchildAdd(svc.AddAssetLink), grandchildUpdate(svc.UpdateAssetLink), grandchildDelete(svc.DeleteAssetLink))
			})
		})
		r.Route("/asset-links/{linkID}", func(r chi.Router) {
			link := params("projectID", "linkID")
			r.Route("/documents", func(r chi.Router) {
				collection(h, r, link, grandchildAdd(svc.AddAssetDocument), grandchildUpdate(svc.UpdateAssetDocument), grandchildDelete(svc.DeleteAssetDocument))
			})
			r.Route("/key-updates", func(r chi.Router) {
				collection(h, r, link, grandchildAdd(svc.AddKeyUpdate), keyUpdateUpdate(svc.UpdateKeyUpdate), keyUpdateDelete(svc.DeleteKeyUpdate))
			})
		})
	})
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	p, ok := h.svc.Project(id)
	if !ok {
		h.fail(w, r, domain.ErrNotFound{Entity: domain.EntityProject, ID: id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": p})
}

func (h *Handler) patchProject(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProjectDetailsPatch
	if err := decodeBody(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	p, res, err := h.svc.UpdateProjectDetails(r.Context(), chi.URLParam(r, "projectID"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, p, res)
}

func (h *Handler) patchBudget(w http.ResponseWriter, r *http.Request) {
	var patch domain.BudgetPatch
	if err := decodeBody(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	b, res, err := h.svc.UpdateBudget(r.Context(), chi.URLParam(r, "projectID"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, b, res)
}

func (h *Handler) mountOCM(r chi.Router) {
	svc := h.svc
	r.Route("/ocm/steps", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": svc.Snapshot().OCMSetup})
		})
		collection(h, r, params(), topAdd(svc.AddOCMStep), topUpdate(svc.UpdateOCMStep), topDelete(svc.DeleteOCMStep))
		r.Put("/{stepID}/image-card", h.putImageCard)
		r.Delete("/{stepID}/image-card", h.deleteImageCard)
		step := params("stepID")
		r.Route("/{stepID}/topics", func(r chi.Router) {
			collection(h, r, step, childAdd(svc.AddOCMTopic), childUpdate(svc.UpdateOCMTopic), childDelete(svc.DeleteOCMTopic))
			r.Route("/{topicID}/items", func(r chi.Router) {
				collection(h, r, params("stepID", "topicID"), grandchildAdd(svc.AddOCMItem), grandchildUpdate(svc.UpdateOCMItem), grandchildDelete(svc.DeleteOCMItem))
			})
		})
		r.Route("/{stepID}/sidebar-links", func(r chi.Router) {
			collection(h, r, step, childAdd(svc.AddOCMSidebarLink), childUpdate(svc.UpdateOCMSidebarLink), childDelete(svc.DeleteOCMSidebarLink))
		})
	})
}

func (h *Handler) putImageCard(w http.ResponseWriter, r *http.Request) {
	var card domain.OCMSetupImageCard
	if err := decodeBody(w, r, &card); err != nil {
		h.fail(w, r, err)
		return
	}
	step, res, err := h.svc.SetOCMImageCard(r.Context(), chi.URLParam(r, "stepID"), &card)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, step, res)
}

func (h *Handler) deleteImageCard(w http.ResponseWriter, r *http.Request) {
	step, res, err := h.svc.SetOCMImageCard(r.Context(), chi.URLParam(r, "stepID"), nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, step, res)
}
