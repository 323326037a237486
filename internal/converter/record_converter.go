package converter

import (
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"

	"github.com/google/uuid"
)

// RecordToResponse converts a Record entity to RecordResponse DTO. Patient and
// appointment physios are included when they were preloaded.
func RecordToResponse(record *entity.Record) *dto.RecordResponse {
	if record == nil {
		return nil
	}

	response := &dto.RecordResponse{
		ID:            record.ID,
		MedicalRecord: record.MedicalRecord,
		CreatedAt:     record.CreatedAt,
	}

	if record.Patient.ID != uuid.Nil {
		response.Patient = PatientToResponse(&record.Patient)
	}

	if len(record.Appointments) > 0 {
		response.Appointments = make([]dto.AppointmentResponse, len(record.Appointments))
		for i := range record.Appointments {
			response.Appointments[i] = *AppointmentToResponse(&record.Appointments[i])
		}
	}

	return response
}

func RecordsToListResponse(records []entity.Record) *dto.RecordListResponse {
	responses := make([]dto.RecordResponse, len(records))
	for i := range records {
		responses[i] = *RecordToResponse(&records[i])
	}
	return &dto.RecordListResponse{
		Records: responses,
		Total:   len(records),
	}
}

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	response := &dto.AppointmentResponse{
		Position:     appointment.Position,
		Date:         appointment.Date.Format(dateLayout),
		Diagnosis:    appointment.Diagnosis,
		Treatment:    appointment.Treatment,
		Observations: appointment.Observations,
	}
	if appointment.Physio.ID != uuid.Nil {
		response.Physio = PhysioToResponse(&appointment.Physio)
	}
	return response
}
