package config

import (
	"spa-backend/models"
	"spa-backend/services"

	"github.com/shopspring/decimal"
)

// ServiceRoles is the default table of which staff roles may perform each catalog service.
func ServiceRoles() services.ServiceRoles {
	return services.ServiceRoles{
		"ANTI_STRESS":            {models.RoleTherapeuticMasseur, models.RoleSpaTherapist},
		"DESCONTRACTURANTE":      {models.RoleTherapeuticMasseur},
		"PIEDRAS_CALIENTES":      {models.RoleTherapeuticMasseur, models.RoleSpaTherapist},
		"CIRCULATORIO":           {models.RoleTherapeuticMasseur},
		"LIFTING_PESTANAS":       {models.RoleEsthetician},
		"DEPILACION_FACIAL":      {models.RoleEsthetician},
		"BELLEZA_MANOS_PIES":     {models.RoleNailCareSpecialist},
		"PUNTA_DIAMANTE":         {models.RoleAdvancedEstheticsTechnician, models.RoleEsthetician},
		"LIMPIEZA_PROFUNDA":      {models.RoleEsthetician},
		"CRIO_FRECUENCIA_FACIAL": {models.RoleAdvancedEstheticsTechnician},
		"VELASLIM":               {models.RoleAdvancedEstheticsTechnician},
		"DERMOHEALTH":            {models.RoleAdvancedEstheticsTechnician},
		"CRIOFRECUENCIA":         {models.RoleAdvancedEstheticsTechnician},
		"ULTRACAVITACION":        {models.RoleAdvancedEstheticsTechnician},
		"HIDROMASAJES":           {models.RoleSpaTherapist},
		"YOGA":                   {models.RoleYogaInstructor},
	}
}

// DefaultCatalog seeds the in-memory store when no database is configured.
func DefaultCatalog() []models.Service {
	return []models.Service{
		{Name: "ANTI_STRESS", Description: "Anti-stress massage", Price: decimal.NewFromInt(100)},
		{Name: "DESCONTRACTURANTE", Description: "Deep tissue massage", Price: decimal.NewFromInt(120)},
		{Name: "PIEDRAS_CALIENTES", Description: "Hot stone massage", Price: decimal.NewFromInt(130)},
		{Name: "CIRCULATORIO", Description: "Circulatory massage", Price: decimal.NewFromInt(110)},
		{Name: "LIFTING_PESTANAS", Description: "Lash lift", Price: decimal.NewFromInt(60)},
		{Name: "DEPILACION_FACIAL", Description: "Facial waxing", Price: decimal.NewFromInt(40)},
		{Name: "BELLEZA_MANOS_PIES", Description: "Manicure and pedicure", Price: decimal.NewFromInt(70)},
		{Name: "PUNTA_DIAMANTE", Description: "Diamond tip microdermabrasion", Price: decimal.NewFromInt(90)},
		{Name: "LIMPIEZA_PROFUNDA", Description: "Deep facial cleansing", Price: decimal.NewFromInt(80)},
		{Name: "CRIO_FRECUENCIA_FACIAL", Description: "Facial cryo-radiofrequency", Price: decimal.NewFromInt(150)},
		{Name: "VELASLIM", Description: "VelaSlim body contouring", Price: decimal.NewFromInt(140)},
		{Name: "DERMOHEALTH", Description: "DermoHealth treatment", Price: decimal.NewFromInt(140)},
		{Name: "CRIOFRECUENCIA", Description: "Body cryo-radiofrequency", Price: decimal.NewFromInt(150)},
		{Name: "ULTRACAVITACION", Description: "Ultrasonic cavitation", Price: decimal.NewFromInt(130)},
		{Name: "HIDROMASAJES", Description: "Hydromassage session", Price: decimal.NewFromInt(85)},
		{Name: "YOGA", Description: "Yoga class", Price: decimal.NewFromInt(50)},
	}
}
