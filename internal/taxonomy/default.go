package taxonomy

// defaultSet is built once at process start and shared read-only.
var defaultSet = New(
	[]Topic{
		{ID: 1, Name: "Health & Wellness"},
		{ID: 2, Name: "Fitness & Physical Activity"},
		{ID: 3, Name: "Career Advancement"},
		{ID: 4, Name: "Learning & Upskilling"},
		{ID: 5, Name: "Income & Financial Growth"},
		{ID: 6, Name: "Financial Discipline & Security"},
		{ID: 7, Name: "Relationships & Romantic Life"},
		{ID: 8, Name: "Family & Parenting"},
		{ID: 9, Name: "Social Life & Friendships"},
		{ID: 10, Name: "Housing & Property"},
		{ID: 11, Name: "Personal Growth & Mindset"},
		{ID: 12, Name: "Lifestyle & Experiences"},
		{ID: 13, Name: "Entrepreneurship & Business Building"},
		{ID: 14, Name: "Community, Purpose & Giving Back"},
		{ID: 15, Name: FallbackTopic},
	},
	[]string{"Positive", "Negative", "Neutral", "Mixed", FallbackSentiment},
)

// Default returns the locked taxonomy that ships with nyr: the fifteen
// resolution topic buckets and the five sentiment labels. Classification
// output never contains a value outside these two lists.
func Default() *Set {
	return defaultSet
}
