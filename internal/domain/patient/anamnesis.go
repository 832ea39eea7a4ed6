package patient

import "time"

// Anamnesis is the structured intake interview document, embedded in the
// patient record. The history number and creation stamps are assigned on
// first creation and survive every later rewrite.
type Anamnesis struct {
	PatientID     string `bson:"patient_id" json:"patient_id"`
	HistoryNumber string `bson:"history_number" json:"history_number"`
	CreationDate  string `bson:"creation_date" json:"creation_date"`

	GeneralData              GeneralData              `bson:"general_data" json:"general_data"`
	ConsultationMotive       ConsultationMotive       `bson:"consultation_motive" json:"consultation_motive"`
	EvolutionaryHistory      EvolutionaryHistory      `bson:"evolutionary_history" json:"evolutionary_history"`
	MedicalHistory           MedicalHistory           `bson:"medical_history" json:"medical_history"`
	NeuromuscularDevelopment NeuromuscularDevelopment `bson:"neuromuscular_development" json:"neuromuscular_development"`
	SpeechHistory            SpeechHistory            `bson:"speech_history" json:"speech_history"`
	HabitsFormation          HabitsFormation          `bson:"habits_formation" json:"habits_formation"`
	Conduct                  Conduct                  `bson:"conduct" json:"conduct"`
	Play                     Play                     `bson:"play" json:"play"`
	EducationalHistory       EducationalHistory       `bson:"educational_history" json:"educational_history"`
	Psychosexuality          Psychosexuality          `bson:"psychosexuality" json:"psychosexuality"`
	ParentalAttitudes        ParentalAttitudes        `bson:"parental_attitudes" json:"parental_attitudes"`
	FamilyHistory            FamilyHistory            `bson:"family_history" json:"family_history"`

	InterviewObservations string    `bson:"interview_observations" json:"interview_observations"`
	CreatedBy             string    `bson:"created_by" json:"created_by"`
	CreatedAt             time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time `bson:"updated_at" json:"updated_at"`
}

// AnamnesisInput is the client payload: the thirteen sections plus the
// interviewer's observations. Identity fields (history number, creation
// stamps) are server-assigned and ignored if sent.
type AnamnesisInput struct {
	GeneralData              *GeneralData              `json:"general_data"`
	ConsultationMotive       *ConsultationMotive       `json:"consultation_motive"`
	EvolutionaryHistory      *EvolutionaryHistory      `json:"evolutionary_history"`
	MedicalHistory           *MedicalHistory           `json:"medical_history"`
	NeuromuscularDevelopment *NeuromuscularDevelopment `json:"neuromuscular_development"`
	SpeechHistory            *SpeechHistory            `json:"speech_history"`
	HabitsFormation          *HabitsFormation          `json:"habits_formation"`
	Conduct                  *Conduct                  `json:"conduct"`
	Play                     *Play                     `json:"play"`
	EducationalHistory       *EducationalHistory       `json:"educational_history"`
	Psychosexuality          *Psychosexuality          `json:"psychosexuality"`
	ParentalAttitudes        *ParentalAttitudes        `json:"parental_attitudes"`
	FamilyHistory            *FamilyHistory            `json:"family_history"`
	InterviewObservations    string                    `json:"interview_observations"`
}

// missingSection returns the wire name of the first absent section, or "".
func (in AnamnesisInput) missingSection() string {
	switch {
	case in.GeneralData == nil:
		return "general_data"
	case in.ConsultationMotive == nil:
		return "consultation_motive"
	case in.EvolutionaryHistory == nil:
		return "evolutionary_history"
	case in.MedicalHistory == nil:
		return "medical_history"
	case in.NeuromuscularDevelopment == nil:
		return "neuromuscular_development"
	case in.SpeechHistory == nil:
		return "speech_history"
	case in.HabitsFormation == nil:
		return "habits_formation"
	case in.Conduct == nil:
		return "conduct"
	case in.Play == nil:
		return "play"
	case in.EducationalHistory == nil:
		return "educational_history"
	case in.Psychosexuality == nil:
		return "psychosexuality"
	case in.ParentalAttitudes == nil:
		return "parental_attitudes"
	case in.FamilyHistory == nil:
		return "family_history"
	}
	return ""
}

type GeneralData struct {
	PatientName    string              `bson:"patient_name" json:"patient_name"`
	BirthDate      string              `bson:"birth_date" json:"birth_date"`
	BirthPlace     string              `bson:"birth_place" json:"birth_place"`
	AgeYears       int                 `bson:"age_years" json:"age_years"`
	AgeMonths      int                 `bson:"age_months" json:"age_months"`
	EducationLevel string              `bson:"education_level" json:"education_level"`
	Informants     []string            `bson:"informants" json:"informants"`
	FatherData     map[string]string   `bson:"father_data" json:"father_data"`
	MotherData     map[string]string   `bson:"mother_data" json:"mother_data"`
	SiblingsData   []map[string]string `bson:"siblings_data" json:"siblings_data"`
}

type ConsultationMotive struct {
	DifficultyPresentation string         `bson:"difficulty_presentation" json:"difficulty_presentation"`
	WhenWhereWho           string         `bson:"when_where_who" json:"when_where_who"`
	Evolution              string         `bson:"evolution" json:"evolution"`
	SolutionsAttempted     string         `bson:"solutions_attempted" json:"solutions_attempted"`
	PerceivedCause         string         `bson:"perceived_cause" json:"perceived_cause"`
	TreatmentsReceived     string         `bson:"treatments_received" json:"treatments_received"`
	CurrentIllness         map[string]any `bson:"current_illness" json:"current_illness"`
}

type EvolutionaryHistory struct {
	Prenatal  map[string]any `bson:"prenatal" json:"prenatal"`
	Perinatal map[string]any `bson:"perinatal" json:"perinatal"`
	Postnatal map[string]any `bson:"postnatal" json:"postnatal"`
}

type MedicalHistory struct {
	CurrentHealth string            `bson:"current_health" json:"current_health"`
	MainDiseases  string            `bson:"main_diseases" json:"main_diseases"`
	Medications   string            `bson:"medications" json:"medications"`
	Accidents     string            `bson:"accidents" json:"accidents"`
	Operations    map[string]string `bson:"operations" json:"operations"`
	Exams         map[string]string `bson:"exams" json:"exams"`
}

type NeuromuscularDevelopment struct {
	MotorMilestones    map[string]string `bson:"motor_milestones" json:"motor_milestones"`
	Difficulties       map[string]bool   `bson:"difficulties" json:"difficulties"`
	AutomaticMovements map[string]string `bson:"automatic_movements" json:"automatic_movements"`
	MotorSkills        map[string]string `bson:"motor_skills" json:"motor_skills"`
	LateralDominance   string            `bson:"lateral_dominance" json:"lateral_dominance"`
}

type SpeechHistory struct {
	SpeechDevelopment map[string]any `bson:"speech_development" json:"speech_development"`
	OralMovements     map[string]any `bson:"oral_movements" json:"oral_movements"`
}

type HabitsFormation struct {
	Feeding              map[string]any `bson:"feeding" json:"feeding"`
	Hygiene              map[string]any `bson:"hygiene" json:"hygiene"`
	Sleep                map[string]any `bson:"sleep" json:"sleep"`
	PersonalIndependence map[string]any `bson:"personal_independence" json:"personal_independence"`
}

type Conduct struct {
	MaladaptiveBehaviors map[string]bool `bson:"maladaptive_behaviors" json:"maladaptive_behaviors"`
	OtherProblems        string          `bson:"other_problems" json:"other_problems"`
	ChildCharacter       string          `bson:"child_character" json:"child_character"`
}

type Play struct {
	PlayPreferences map[string]string `bson:"play_preferences" json:"play_preferences"`
	SocialPlay      map[string]string `bson:"social_play" json:"social_play"`
}

type EducationalHistory struct {
	InitialEducation     map[string]string `bson:"initial_education" json:"initial_education"`
	PrimarySecondary     map[string]string `bson:"primary_secondary" json:"primary_secondary"`
	LearningDifficulties map[string]string `bson:"learning_difficulties" json:"learning_difficulties"`
	SpecialServices      map[string]string `bson:"special_services" json:"special_services"`
}

type Psychosexuality struct {
	SexualQuestionsAge  string            `bson:"sexual_questions_age" json:"sexual_questions_age"`
	InformationProvided string            `bson:"information_provided" json:"information_provided"`
	OppositeSexFriends  bool              `bson:"opposite_sex_friends" json:"opposite_sex_friends"`
	GenitalBehaviors    map[string]string `bson:"genital_behaviors" json:"genital_behaviors"`
}

type ParentalAttitudes struct {
	ParentalReactions []string          `bson:"parental_reactions" json:"parental_reactions"`
	BeliefsGuilt      string            `bson:"beliefs_guilt" json:"beliefs_guilt"`
	BehavioralChanges string            `bson:"behavioral_changes" json:"behavioral_changes"`
	PunishmentUse     map[string]string `bson:"punishment_use" json:"punishment_use"`
	ChildBehavior     map[string]string `bson:"child_behavior" json:"child_behavior"`
}

type FamilyHistory struct {
	PsychiatricDiseases  bool     `bson:"psychiatric_diseases" json:"psychiatric_diseases"`
	SpeechProblems       bool     `bson:"speech_problems" json:"speech_problems"`
	LearningDifficulties bool     `bson:"learning_difficulties" json:"learning_difficulties"`
	OtherConditions      []string `bson:"other_conditions" json:"other_conditions"`
	ParentsCharacter     string   `bson:"parents_character" json:"parents_character"`
	CoupleRelationship   string   `bson:"couple_relationship" json:"couple_relationship"`
}
