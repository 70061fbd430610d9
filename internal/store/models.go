package store

import "time"

// User is a registered student account.
type User struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Password       string    `gorm:"column:password;not null" json:"-"`
	FirstName      *string   `gorm:"column:first_name" json:"firstName"`
	LastName       *string   `gorm:"column:last_name" json:"lastName"`
	Email          *string   `gorm:"column:email;uniqueIndex" json:"email"`
	ProfileImage   *string   `gorm:"column:profile_image" json:"profileImage"`
	StudyHours     int       `gorm:"column:study_hours;not null;default:0" json:"studyHours"`
	AIInteractions int       `gorm:"column:ai_interactions;not null;default:0" json:"aiInteractions"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
}

func (User) TableName() string { return "users" }

// QuestionPaper is an uploaded exam paper.
// AnalysisResults is non-null exactly when Analyzed is true.
type QuestionPaper struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          int64      `gorm:"column:user_id;not null;index" json:"userId"`
	Title           string     `gorm:"column:title;not null" json:"title"`
	Subject         string     `gorm:"column:subject;not null" json:"subject"`
	Description     *string    `gorm:"column:description" json:"description"`
	Difficulty      string     `gorm:"column:difficulty;not null" json:"difficulty"`
	NumQuestions    *int       `gorm:"column:num_questions" json:"numQuestions"`
	EstimatedTime   *int       `gorm:"column:estimated_time" json:"estimatedTime"`
	PaperContent    string     `gorm:"column:paper_content;not null" json:"paperContent"`
	Tags            StringList `gorm:"column:tags;type:jsonb" json:"tags"`
	UploadDate      time.Time  `gorm:"column:upload_date;not null;autoCreateTime" json:"uploadDate"`
	Analyzed        bool       `gorm:"column:analyzed;not null;default:false" json:"analyzed"`
	AnalysisResults JSONMap    `gorm:"column:analysis_results;type:jsonb" json:"analysisResults"`
}

func (QuestionPaper) TableName() string { return "question_papers" }

// StudyResource is a per-user study material reference.
type StudyResource struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID       int64      `gorm:"column:user_id;not null;index" json:"userId"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	Description  *string    `gorm:"column:description" json:"description"`
	ResourceType string     `gorm:"column:resource_type;not null" json:"resourceType"`
	URL          *string    `gorm:"column:url" json:"url"`
	Content      *string    `gorm:"column:content" json:"content"`
	Tags         StringList `gorm:"column:tags;type:jsonb" json:"tags"`
	Rating       *int       `gorm:"column:rating" json:"rating"`
	AddedDate    time.Time  `gorm:"column:added_date;not null;autoCreateTime" json:"addedDate"`
	Reviews      int        `gorm:"column:reviews;not null;default:0" json:"reviews"`
}

func (StudyResource) TableName() string { return "study_resources" }

// VideoResource is a globally shared video reference.
type VideoResource struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description *string    `gorm:"column:description" json:"description"`
	YoutubeURL  string     `gorm:"column:youtube_url;not null" json:"youtubeUrl"`
	Thumbnail   *string    `gorm:"column:thumbnail" json:"thumbnail"`
	Duration    *int       `gorm:"column:duration" json:"duration"`
	Tags        StringList `gorm:"column:tags;type:jsonb" json:"tags"`
	AddedDate   time.Time  `gorm:"column:added_date;not null;autoCreateTime" json:"addedDate"`
	Views       int        `gorm:"column:views;not null;default:0" json:"views"`
}

func (VideoResource) TableName() string { return "video_resources" }

// ExamSchedule is an upcoming exam entry.
type ExamSchedule struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"column:user_id;not null;index" json:"userId"`
	ExamName       string    `gorm:"column:exam_name;not null" json:"examName"`
	ExamType       string    `gorm:"column:exam_type;not null" json:"examType"`
	Date           time.Time `gorm:"column:date;not null" json:"date"`
	Location       *string   `gorm:"column:location" json:"location"`
	ReadinessLevel int       `gorm:"column:readiness_level;not null;default:0" json:"readinessLevel"`
	RelatedPapers  Int64List `gorm:"column:related_papers;type:jsonb" json:"relatedPapers"`
}

func (ExamSchedule) TableName() string { return "exam_schedule" }

// StudyAnalytics holds one user's activity counters for one calendar day.
// The (user_id, date) pair is unique; writes are additive upserts.
type StudyAnalytics struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:idx_study_analytics_user_date,priority:1" json:"userId"`
	Date           time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_study_analytics_user_date,priority:2" json:"date"`
	PapersAnalyzed int       `gorm:"column:papers_analyzed;not null;default:0" json:"papersAnalyzed"`
	StudyHours     int       `gorm:"column:study_hours;not null;default:0" json:"studyHours"`
	ResourcesUsed  int       `gorm:"column:resources_used;not null;default:0" json:"resourcesUsed"`
	AIInteractions int       `gorm:"column:ai_interactions;not null;default:0" json:"aiInteractions"`
}

func (StudyAnalytics) TableName() string { return "study_analytics" }

// CommunityPost is a question shared with other students.
type CommunityPost struct {
	ID       int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID   int64      `gorm:"column:user_id;not null;index" json:"userId"`
	Title    string     `gorm:"column:title;not null" json:"title"`
	Content  string     `gorm:"column:content;not null" json:"content"`
	Likes    int        `gorm:"column:likes;not null;default:0" json:"likes"`
	Comments int        `gorm:"column:comments;not null;default:0" json:"comments"`
	Tags     StringList `gorm:"column:tags;type:jsonb" json:"tags"`
	Solved   bool       `gorm:"column:solved;not null;default:false" json:"solved"`
	PostDate time.Time  `gorm:"column:post_date;not null;autoCreateTime" json:"postDate"`
}

func (CommunityPost) TableName() string { return "community_posts" }

// ChatHistory is one user's whole assistant conversation. One row per user.
type ChatHistory struct {
	ID        int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64       `gorm:"column:user_id;not null;uniqueIndex" json:"userId"`
	Messages  MessageList `gorm:"column:messages;type:jsonb;not null" json:"messages"`
	CreatedAt time.Time   `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"column:updated_at;not null;autoUpdateTime" json:"updatedAt"`
}

func (ChatHistory) TableName() string { return "ai_chat_history" }
