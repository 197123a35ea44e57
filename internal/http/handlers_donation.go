package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("ફોર્મ વાંચી શકાયું નહીં").Write(w)
		return
	}
	form := map[string]string{
		"amount":     p.Get("amount"),
		"member_id":  p.Get("member_id"),
		"donor_name": p.Get("donor_name"),
		"note":       p.Get("note"),
	}

	in, err := ParseDonation(p)
	if err != nil {
		s.writeMutationError(w, r, err, form)
		return
	}
	if _, err := s.svc.RecordDonation(r.Context(), in); err != nil {
		s.writeMutationError(w, r, err, form)
		return
	}
	RedirectHome(NoticeDonationRecorded).Write(w)
}

func (s *Server) handleDeleteDonation(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveDonation(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeMutationError(w, r, err, nil)
		return
	}
	RedirectHome(NoticeDonationRemoved).Write(w)
}
