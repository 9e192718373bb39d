package handler

import (
	"errors"
	"net/http"
)

// UploadVehicleImage handles POST /admin/vehicles/{id}/images.
// The photo is sent as multipart form field "file".
func (s *Server) UploadVehicleImage(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err, "")
			return
		}
		writeRequestError(w, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	img, err := s.images.Upload(r.Context(), vehicleID, file, header.Size)
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// DeleteVehicleImage handles DELETE /admin/vehicles/{id}/images/{imageId}.
func (s *Server) DeleteVehicleImage(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	imageID, err := pathUUID(r, "imageId")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if _, err := s.images.Remove(r.Context(), vehicleID, imageID); err != nil {
		s.writeError(w, r, err, "image not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
