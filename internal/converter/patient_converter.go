package converter

import (
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:              patient.ID,
		UserID:          patient.UserID,
		Name:            patient.Name,
		Surname:         patient.Surname,
		BirthDate:       patient.BirthDate.Format(dateLayout),
		Address:         patient.Address,
		InsuranceNumber: patient.InsuranceNumber,
		Image:           patient.Image,
	}
}

func PatientsToListResponse(patients []entity.Patient) *dto.PatientListResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return &dto.PatientListResponse{
		Patients: responses,
		Total:    len(patients),
	}
}

// PatientToUpdateRequest pre-fills the edit form with the stored values.
func PatientToUpdateRequest(patient *dto.PatientResponse) *dto.UpdatePatientRequest {
	return &dto.UpdatePatientRequest{
		Name:            patient.Name,
		Surname:         patient.Surname,
		BirthDate:       patient.BirthDate,
		Address:         patient.Address,
		InsuranceNumber: patient.InsuranceNumber,
	}
}
