package revalidate

// Tag names a group of cached responses.
type Tag string

const (
	TagHome        Tag = "home"
	TagBanners     Tag = "banners"
	TagPosts       Tag = "posts"
	TagCategories  Tag = "categories"
	TagTags        Tag = "tags"
	TagComments    Tag = "comments"
	TagDoctors     Tag = "doctors"
	TagScopes      Tag = "scopes"
	TagCourses     Tag = "courses"
	TagBooks       Tag = "books"
	TagGalleries   Tag = "galleries"
	TagNotices     Tag = "notices"
	TagForum       Tag = "forum"
	TagForumTopics Tag = "forum_topics"
	TagSearch      Tag = "search"
)

// Mutation names a write that makes cached reads stale.
type Mutation string

const (
	BannerCreated   Mutation = "banner.created"
	BannerUpdated   Mutation = "banner.updated"
	BannerDeleted   Mutation = "banner.deleted"
	BannerReordered Mutation = "banner.reordered"

	CategoryChanged Mutation = "category.changed"
	TagChanged      Mutation = "tag.changed"
	PostChanged     Mutation = "post.changed"
	CommentChanged  Mutation = "comment.changed"

	DoctorChanged Mutation = "doctor.changed"
	ScopeChanged  Mutation = "scope.changed"

	CourseChanged Mutation = "course.changed"
	BookChanged   Mutation = "book.changed"
	StockChanged  Mutation = "book.stock_changed"

	GalleryChanged Mutation = "gallery.changed"
	NoticeChanged  Mutation = "notice.changed"

	ForumCategoryChanged Mutation = "forum.category_changed"
	ForumTopicChanged    Mutation = "forum.topic_changed"
	ForumPostChanged     Mutation = "forum.post_changed"
	ForumVoted           Mutation = "forum.voted"
)

// Rules maps each mutation to every tag it invalidates.
var Rules = map[Mutation][]Tag{
	BannerCreated:   {TagBanners, TagHome},
	BannerUpdated:   {TagBanners, TagHome},
	BannerDeleted:   {TagBanners, TagHome},
	BannerReordered: {TagBanners, TagHome},

	CategoryChanged: {TagCategories, TagPosts, TagHome},
	TagChanged:      {TagTags, TagPosts},
	PostChanged:     {TagPosts, TagHome, TagSearch},
	CommentChanged:  {TagComments},

	DoctorChanged: {TagDoctors, TagScopes, TagHome},
	ScopeChanged:  {TagScopes, TagDoctors},

	CourseChanged: {TagCourses, TagHome},
	BookChanged:   {TagBooks, TagSearch},
	StockChanged:  {TagBooks},

	GalleryChanged: {TagGalleries, TagHome},
	NoticeChanged:  {TagNotices, TagHome},

	ForumCategoryChanged: {TagForum},
	ForumTopicChanged:    {TagForum, TagForumTopics},
	ForumPostChanged:     {TagForumTopics},
	ForumVoted:           {TagForumTopics},
}

func TagsFor(m Mutation) []Tag {
	return Rules[m]
}
