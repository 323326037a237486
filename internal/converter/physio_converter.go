package converter

import (
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
)

// PhysioToResponse converts a Physio entity to PhysioResponse DTO
func PhysioToResponse(physio *entity.Physio) *dto.PhysioResponse {
	if physio == nil {
		return nil
	}

	return &dto.PhysioResponse{
		ID:            physio.ID,
		UserID:        physio.UserID,
		Name:          physio.Name,
		Surname:       physio.Surname,
		Speciality:    physio.Speciality,
		LicenseNumber: physio.LicenseNumber,
		Image:         physio.Image,
	}
}

func PhysiosToListResponse(physios []entity.Physio) *dto.PhysioListResponse {
	responses := make([]dto.PhysioResponse, len(physios))
	for i := range physios {
		responses[i] = *PhysioToResponse(&physios[i])
	}
	return &dto.PhysioListResponse{
		Physios: responses,
		Total:   len(physios),
	}
}

func PhysioToUpdateRequest(physio *dto.PhysioResponse) *dto.UpdatePhysioRequest {
	return &dto.UpdatePhysioRequest{
		Name:          physio.Name,
		Surname:       physio.Surname,
		Speciality:    physio.Speciality,
		LicenseNumber: physio.LicenseNumber,
	}
}
