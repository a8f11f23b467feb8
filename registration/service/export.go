// registration/service/export.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gripclub/registration-service/shared/apperrors"
	"github.com/gripclub/registration-service/shared/models"
)

// ExportFile is a ready-to-serve download: the handler only sets headers
// from it and writes the body.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// exportPilot is a pilot row in the full JSON export, with the team name
// denormalized in.
type exportPilot struct {
	models.Pilot
	TeamName string `json:"teamName"`
}

type exportStaff struct {
	models.StaffMember
	TeamName string `json:"teamName"`
}

// Export builds a download of the registration data. kind selects the
// dataset: "teams", "pilots" and "staff" produce CSV files, "all" produces
// a single JSON document with every dataset.
func (as *AdminService) Export(ctx context.Context, kind string) (*ExportFile, error) {
	switch kind {
	case "teams", "pilots", "staff", "all":
	default:
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid export type. Use: teams, pilots, staff, or all")
	}

	teams, err := as.loadTeams(ctx)
	if err != nil {
		return nil, err
	}
	date := time.Now().UTC().Format("2006-01-02")

	switch kind {
	case "teams":
		return csvFile("equipos-"+date+".csv", teamRows(teams)), nil
	case "pilots":
		return csvFile("pilotos-"+date+".csv", pilotRows(teams)), nil
	case "staff":
		return csvFile("staff-"+date+".csv", staffRows(teams)), nil
	}

	return jsonExport(teams, date)
}

func teamRows(teams []AdminTeam) [][]string {
	rows := [][]string{{
		"Nombre Equipo", "Estado", "Num Pilotos",
		"Representante Nombre", "Representante Apellidos", "DNI", "Email", "Telefono",
		"Direccion", "Municipio", "CP", "Provincia",
		"Marca Moto", "Modelo Moto", "Cilindrada", "Fecha Registro",
	}}
	for _, team := range teams {
		rows = append(rows, []string{
			team.Name,
			string(team.Status),
			fmt.Sprintf("%d", team.NumberOfPilots),
			team.RepresentativeName,
			team.RepresentativeSurname,
			team.RepresentativeDNI,
			team.RepresentativeEmail,
			team.RepresentativePhone,
			team.Address,
			team.Municipality,
			team.PostalCode,
			team.Province,
			team.MotorcycleBrand,
			team.MotorcycleModel,
			string(team.EngineCapacity),
			team.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
	return rows
}

func pilotRows(teams []AdminTeam) [][]string {
	rows := [][]string{{
		"Equipo", "Nombre", "Apellidos", "DNI", "Email", "Telefono",
		"Nivel", "Experiencia", "Contacto Emergencia", "Tel Emergencia", "Es Representante",
	}}
	for _, team := range teams {
		for _, pilot := range team.Pilots {
			rep := "No"
			if pilot.IsRepresentative {
				rep = "Si"
			}
			rows = append(rows, []string{
				team.Name,
				pilot.Name,
				pilot.Surname,
				pilot.DNI,
				pilot.Email,
				pilot.Phone,
				string(pilot.DrivingLevel),
				pilot.TrackExperience,
				pilot.EmergencyContactName,
				pilot.EmergencyContactPhone,
				rep,
			})
		}
	}
	return rows
}

func staffRows(teams []AdminTeam) [][]string {
	rows := [][]string{{"Equipo", "Nombre", "DNI", "Telefono", "Rol"}}
	for _, team := range teams {
		for _, member := range team.Staff {
			rows = append(rows, []string{
				team.Name,
				member.Name,
				member.DNI,
				member.Phone,
				string(member.Role),
			})
		}
	}
	return rows
}

func jsonExport(teams []AdminTeam, date string) (*ExportFile, error) {
	sorted := make([]AdminTeam, len(teams))
	copy(sorted, teams)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	pilots := []exportPilot{}
	staff := []exportStaff{}
	for _, team := range sorted {
		for _, pilot := range team.Pilots {
			pilots = append(pilots, exportPilot{Pilot: pilot, TeamName: team.Name})
		}
		for _, member := range team.Staff {
			staff = append(staff, exportStaff{StaffMember: member, TeamName: team.Name})
		}
	}

	payload := struct {
		ExportedAt time.Time     `json:"exportedAt"`
		Teams      []AdminTeam   `json:"teams"`
		Pilots     []exportPilot `json:"pilots"`
		Staff      []exportStaff `json:"staff"`
	}{
		ExportedAt: time.Now().UTC(),
		Teams:      sorted,
		Pilots:     pilots,
		Staff:      staff,
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return &ExportFile{
		Filename:    "grip-club-export-" + date + ".json",
		ContentType: "application/json",
		Body:        body,
	}, nil
}

// csvFile renders rows as CSV with a UTF-8 BOM so spreadsheet imports pick
// the right encoding. Every field is quoted, with inner quotes doubled.
func csvFile(filename string, rows [][]string) *ExportFile {
	var sb strings.Builder
	sb.WriteString("\uFEFF")
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
			sb.WriteByte('"')
		}
		sb.WriteByte('\n')
	}
	return &ExportFile{
		Filename:    filename,
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte(sb.String()),
	}
}
