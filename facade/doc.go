package facade

// facade presents one storage interface to the rest of the application,
// whether or not the persistent store could be opened, and tells interested
// code when stored data changes.
