package sanity

// GROQ queries. Every post query takes $preview; when it is false documents
// flagged draft are filtered out.

const postFilter = `_type == "post" && defined(slug.current) && ($preview || draft != true)`

const listingFields = `
  _id,
  _type,
  title,
  slug,
  date,
  lastmod,
  draft,
  summary,
  tags,
  images[]{
    asset->,
    alt
  },
  authors,
  layout`

const postFields = listingFields + `,
  bibliography,
  canonicalUrl,
  body`

const authorFields = `
  _id,
  _type,
  name,
  slug,
  avatar{
    asset->
  },
  occupation,
  company,
  email,
  twitter,
  bluesky,
  linkedin,
  github,
  wechat,
  layout,
  bio`

const (
	allPostsQuery = `*[` + postFilter + `] | order(date desc) {` + postFields + `
}`

	postBySlugQuery = `*[` + postFilter + ` && slug.current == $slug][0]{` + postFields + `
}`

	allAuthorsQuery = `*[_type == "author" && defined(slug.current)] | order(name asc) {` + authorFields + `
}`

	authorBySlugQuery = `*[_type == "author" && slug.current == $slug][0]{` + authorFields + `
}`

	tagsQuery = `*[` + postFilter + `].tags`

	// Tags are matched by slug, which GROQ cannot compute, so every tagged
	// post is fetched without its body and filtered client side.
	taggedPostsQuery = `*[` + postFilter + ` && count(tags) > 0] | order(date desc) {` + listingFields + `
}`
)
